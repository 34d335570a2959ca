package auctions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/gobid/internal/domain"
	"github.com/GlebRadaev/gobid/internal/dto"
	auctionservice "github.com/GlebRadaev/gobid/internal/service/auctionservice"
	"github.com/GlebRadaev/gobid/pkg/auth"
)

func NewMock(t *testing.T) (*AuctionHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func activeAuction(id, sellerID int) domain.Auction {
	return domain.Auction{
		ID:            id,
		SellerID:      sellerID,
		Title:         "Vintage clock",
		Description:   "Brass, 1920s",
		StartingPrice: decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(100),
		MinIncrement:  decimal.NewFromInt(5),
		Status:        domain.ActiveAuctionStatus,
		EndTime:       time.Now().Add(24 * time.Hour),
	}
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)

	endTime := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	validBody := fmt.Sprintf(
		`{"title":"Vintage clock","description":"Brass, 1920s","starting_price":100,"min_increment":5,"end_time":%q}`,
		endTime.Format(time.RFC3339),
	)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful creation",
			body: validBody,
			prepareMock: func() {
				created := activeAuction(1, 7)
				service.EXPECT().
					Create(gomock.Any(), 7, gomock.Any()).
					Return(&created, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Invalid end time format",
			body:          `{"title":"x","description":"y","starting_price":100,"min_increment":5,"end_time":"not-a-date"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid end time format",
		},
		{
			name:          "Starting price with too many decimal places",
			body:          `{"title":"x","description":"y","starting_price":100.999,"min_increment":5,"end_time":"2030-01-01T00:00:00Z"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Prices must be positive",
		},
		{
			name: "End time too soon",
			body: validBody,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 7, gomock.Any()).
					Return(nil, auctionservice.ErrEndTimeTooSoon)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "end time must be at least one hour in the future",
		},
		{
			name: "Internal server error",
			body: validBody,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 7, gomock.Any()).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/auctions", bytes.NewBufferString(tt.body))
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 7))
			w := httptest.NewRecorder()

			handler.Create(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.AuctionResponseDTO
				err := json.NewDecoder(w.Body).Decode(&body)
				assert.NoError(t, err)
				assert.Equal(t, 1, body.ID)
				assert.Equal(t, "Vintage clock", body.Title)
				assert.Equal(t, float64(100), body.CurrentPrice)
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		query        string
		prepareMock  func()
		expectedCode int
		check        func(t *testing.T, resp dto.ListAuctionsResponseDTO)
	}{
		{
			name:  "Defaults applied",
			query: "",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), 1, 20, "", "").
					Return([]auctionservice.AuctionSummary{
						{Auction: activeAuction(1, 7), BidderCount: 3},
					}, 1, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.ListAuctionsResponseDTO) {
				assert.Len(t, resp.Auctions, 1)
				assert.Equal(t, 3, resp.Auctions[0].BidderCount)
				assert.Greater(t, resp.Auctions[0].TimeLeft, 0)
				assert.Equal(t, 1, resp.Pagination.Page)
				assert.Equal(t, 20, resp.Pagination.PerPage)
				assert.Equal(t, 1, resp.Pagination.Pages)
			},
		},
		{
			name:  "Explicit paging and filter",
			query: "?page=2&per_page=10&status=active&order_by=end_time",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), 2, 10, "active", "end_time").
					Return([]auctionservice.AuctionSummary{}, 35, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.ListAuctionsResponseDTO) {
				assert.Empty(t, resp.Auctions)
				assert.Equal(t, 35, resp.Pagination.Total)
				assert.Equal(t, 4, resp.Pagination.Pages)
			},
		},
		{
			name:  "Long description and extra images trimmed",
			query: "",
			prepareMock: func() {
				auction := activeAuction(1, 7)
				auction.Description = strings.Repeat("x", 150)
				auction.Images = []string{"a.jpg", "b.jpg", "c.jpg"}
				service.EXPECT().
					List(gomock.Any(), 1, 20, "", "").
					Return([]auctionservice.AuctionSummary{
						{Auction: auction, BidderCount: 1},
					}, 1, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.ListAuctionsResponseDTO) {
				assert.Len(t, resp.Auctions, 1)
				assert.Equal(t, strings.Repeat("x", 100)+"...", resp.Auctions[0].Description)
				assert.Equal(t, []string{"a.jpg"}, resp.Auctions[0].Images)
			},
		},
		{
			name:  "Short description kept as is",
			query: "",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), 1, 20, "", "").
					Return([]auctionservice.AuctionSummary{
						{Auction: activeAuction(1, 7), BidderCount: 0},
					}, 1, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.ListAuctionsResponseDTO) {
				assert.Equal(t, "Brass, 1920s", resp.Auctions[0].Description)
			},
		},
		{
			name:  "Internal server error",
			query: "",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), 1, 20, "", "").
					Return(nil, 0, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/api/auctions"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.List(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.check != nil {
				var resp dto.ListAuctionsResponseDTO
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				tt.check(t, resp)
			}
		})
	}
}

func TestGetDetailHandler(t *testing.T) {
	handler, service := NewMock(t)

	bidderID := 9
	detailWithBids := func() *auctionservice.AuctionDetail {
		auction := activeAuction(1, 7)
		auction.CurrentBidderID = &bidderID
		auction.CurrentPrice = decimal.NewFromInt(110)
		return &auctionservice.AuctionDetail{
			Auction: auction,
			Bids: []domain.AuctionBid{
				{
					Bid: domain.Bid{
						ID: 2, AuctionID: 1, BidderID: 9,
						Amount:    decimal.NewFromInt(110),
						CreatedAt: time.Now(),
					},
					BidderLogin: "alice",
				},
				{
					Bid: domain.Bid{
						ID: 1, AuctionID: 1, BidderID: 8,
						Amount:    decimal.NewFromInt(105),
						CreatedAt: time.Now().Add(-time.Minute),
					},
					BidderLogin: "b",
				},
			},
			CurrentBidder: &domain.User{ID: 9, Login: "alice"},
		}
	}

	tests := []struct {
		name          string
		auctionID     string
		userID        *int
		prepareMock   func()
		expectedCode  int
		expectedError string
		check         func(t *testing.T, resp dto.AuctionDetailResponseDTO)
	}{
		{
			name:      "Anonymous request sees masked bidders",
			auctionID: "1",
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 1).
					Return(detailWithBids(), nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.AuctionDetailResponseDTO) {
				assert.Equal(t, 1, resp.ID)
				assert.Len(t, resp.BidHistory, 2)
				assert.Equal(t, "a***", resp.BidHistory[0].Bidder)
				assert.Equal(t, "***", resp.BidHistory[1].Bidder)
				assert.Equal(t, float64(110), resp.BidHistory[0].Amount)
				if assert.NotNil(t, resp.CurrentBidder) {
					assert.Equal(t, "a***", resp.CurrentBidder.Login)
					assert.Equal(t, 0, resp.CurrentBidder.ID)
				}
			},
		},
		{
			name:      "Authenticated non-seller sees masked bidders",
			auctionID: "1",
			userID:    &bidderID,
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 1).
					Return(detailWithBids(), nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.AuctionDetailResponseDTO) {
				assert.Equal(t, "a***", resp.BidHistory[0].Bidder)
				if assert.NotNil(t, resp.CurrentBidder) {
					assert.Equal(t, "a***", resp.CurrentBidder.Login)
				}
			},
		},
		{
			name:      "Seller sees full history and bidder identity",
			auctionID: "1",
			userID:    func() *int { id := 7; return &id }(),
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 1).
					Return(detailWithBids(), nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.AuctionDetailResponseDTO) {
				assert.Equal(t, "alice", resp.BidHistory[0].Bidder)
				assert.Equal(t, "b", resp.BidHistory[1].Bidder)
				if assert.NotNil(t, resp.CurrentBidder) {
					assert.Equal(t, 9, resp.CurrentBidder.ID)
					assert.Equal(t, "alice", resp.CurrentBidder.Login)
				}
			},
		},
		{
			name:      "No current bidder block without bids",
			auctionID: "1",
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 1).
					Return(&auctionservice.AuctionDetail{Auction: activeAuction(1, 7)}, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp dto.AuctionDetailResponseDTO) {
				assert.Nil(t, resp.CurrentBidder)
				assert.Empty(t, resp.BidHistory)
			},
		},
		{
			name:          "Invalid auction ID",
			auctionID:     "abc",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid auction ID",
		},
		{
			name:      "Auction not found",
			auctionID: "99",
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 99).
					Return(nil, auctionservice.ErrAuctionNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "auction not found",
		},
		{
			name:      "Internal server error",
			auctionID: "1",
			prepareMock: func() {
				service.EXPECT().
					GetDetail(gomock.Any(), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/api/auctions/"+tt.auctionID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("auctionID", tt.auctionID)
			ctx := context.WithValue(context.Background(), chi.RouteCtxKey, rctx)
			if tt.userID != nil {
				ctx = context.WithValue(ctx, auth.UserIDKey, *tt.userID)
			}
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetDetail(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.check != nil {
				var resp dto.AuctionDetailResponseDTO
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				tt.check(t, resp)
			}
		})
	}
}

func TestMyListingsHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		check        func(t *testing.T, resp []dto.AuctionListItemDTO)
	}{
		{
			name: "Successful retrieval",
			prepareMock: func() {
				service.EXPECT().
					ListBySeller(gomock.Any(), 7).
					Return([]auctionservice.AuctionSummary{
						{Auction: activeAuction(1, 7), BidderCount: 2},
						{Auction: activeAuction(2, 7), BidderCount: 0},
					}, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp []dto.AuctionListItemDTO) {
				assert.Len(t, resp, 2)
				assert.Equal(t, 2, resp[0].BidderCount)
			},
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().
					ListBySeller(gomock.Any(), 7).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/api/auctions/my/listings", nil)
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 7))
			w := httptest.NewRecorder()

			handler.MyListings(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.check != nil {
				var resp []dto.AuctionListItemDTO
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				tt.check(t, resp)
			}
		})
	}
}
