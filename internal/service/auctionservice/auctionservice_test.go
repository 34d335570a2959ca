package auctionservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/gobid/internal/domain"
	auctionrepo "github.com/GlebRadaev/gobid/internal/repo/auction-repo"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockBidRepo, *MockUserRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	bidRepo := NewMockBidRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	service := New(repo, bidRepo, userRepo)
	defer ctrl.Finish()
	return service, repo, bidRepo, userRepo
}

func validParams() CreateParams {
	return CreateParams{
		Title:         "Vintage clock",
		Description:   "Brass, working order",
		StartingPrice: decimal.NewFromInt(100),
		MinIncrement:  decimal.NewFromInt(5),
		EndTime:       time.Now().Add(2 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	service, repo, _, _ := NewMock(t)

	tests := []struct {
		name          string
		params        func() CreateParams
		prepareMock   func()
		expectedError error
	}{
		{
			name:          "Empty title",
			params:        func() CreateParams { p := validParams(); p.Title = ""; return p },
			prepareMock:   func() {},
			expectedError: ErrTitleRequired,
		},
		{
			name:          "Empty description",
			params:        func() CreateParams { p := validParams(); p.Description = ""; return p },
			prepareMock:   func() {},
			expectedError: ErrDescriptionRequired,
		},
		{
			name:          "Non-positive starting price",
			params:        func() CreateParams { p := validParams(); p.StartingPrice = decimal.Zero; return p },
			prepareMock:   func() {},
			expectedError: ErrInvalidStartingPrice,
		},
		{
			name:          "Non-positive min increment",
			params:        func() CreateParams { p := validParams(); p.MinIncrement = decimal.NewFromInt(-1); return p },
			prepareMock:   func() {},
			expectedError: ErrInvalidMinIncrement,
		},
		{
			name:          "End time less than an hour away",
			params:        func() CreateParams { p := validParams(); p.EndTime = time.Now().Add(30 * time.Minute); return p },
			prepareMock:   func() {},
			expectedError: ErrEndTimeTooSoon,
		},
		{
			name:   "Repository error",
			params: validParams,
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
		{
			name:   "Successful creation",
			params: validParams,
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, auction *domain.Auction) (*domain.Auction, error) {
						auction.ID = 1
						return auction, nil
					})
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			auction, err := service.Create(context.Background(), 10, tt.params())
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				require.NoError(t, err)
				require.NotNil(t, auction)
				assert.Equal(t, 10, auction.SellerID)
				assert.Equal(t, domain.ActiveAuctionStatus, auction.Status)
				assert.True(t, auction.CurrentPrice.Equal(auction.StartingPrice))
			}
		})
	}
}

func TestList(t *testing.T) {
	service, repo, bidRepo, _ := NewMock(t)

	auction := domain.Auction{ID: 1, Status: domain.ActiveAuctionStatus}

	tests := []struct {
		name        string
		page        int
		perPage     int
		status      string
		orderBy     string
		prepareMock func()
		expectErr   bool
		total       int
	}{
		{
			name:    "Defaults applied for out-of-range parameters",
			page:    0,
			perPage: 500,
			status:  "bogus",
			orderBy: "bogus",
			prepareMock: func() {
				repo.EXPECT().List(gomock.Any(), auctionrepo.ListParams{
					Page: 1, PerPage: 20, Status: "", OrderBy: "created_at",
				}).Return([]domain.Auction{auction}, 1, nil)
				bidRepo.EXPECT().CountBiddersByAuction(gomock.Any(), 1).Return(3, nil)
			},
			total: 1,
		},
		{
			name:    "Status filter and end_time ordering pass through",
			page:    2,
			perPage: 10,
			status:  domain.ActiveAuctionStatus,
			orderBy: "end_time",
			prepareMock: func() {
				repo.EXPECT().List(gomock.Any(), auctionrepo.ListParams{
					Page: 2, PerPage: 10, Status: domain.ActiveAuctionStatus, OrderBy: "end_time",
				}).Return(nil, 0, nil)
			},
			total: 0,
		},
		{
			name:    "Repository error",
			page:    1,
			perPage: 20,
			prepareMock: func() {
				repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			summaries, total, err := service.List(context.Background(), tt.page, tt.perPage, tt.status, tt.orderBy)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.total, total)
			if tt.total > 0 {
				assert.Equal(t, 3, summaries[0].BidderCount)
			}
		})
	}
}

func TestGetDetail(t *testing.T) {
	service, repo, bidRepo, userRepo := NewMock(t)

	bidderID := 5

	tests := []struct {
		name           string
		prepareMock    func()
		expectedError  error
		expectedBids   int
		expectedBidder *domain.User
	}{
		{
			name: "Auction not found",
			prepareMock: func() {
				repo.EXPECT().GetByID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedError: ErrAuctionNotFound,
		},
		{
			name: "Auction with bid history",
			prepareMock: func() {
				repo.EXPECT().GetByID(gomock.Any(), 1).Return(&domain.Auction{ID: 1}, nil)
				bidRepo.EXPECT().FindByAuction(gomock.Any(), 1).Return([]domain.AuctionBid{
					{Bid: domain.Bid{ID: 2, Amount: decimal.NewFromInt(110)}, BidderLogin: "alice"},
					{Bid: domain.Bid{ID: 1, Amount: decimal.NewFromInt(105)}, BidderLogin: "bob"},
				}, nil)
			},
			expectedBids: 2,
		},
		{
			name: "Auction with current bidder",
			prepareMock: func() {
				repo.EXPECT().GetByID(gomock.Any(), 1).Return(&domain.Auction{ID: 1, CurrentBidderID: &bidderID}, nil)
				bidRepo.EXPECT().FindByAuction(gomock.Any(), 1).Return(nil, nil)
				userRepo.EXPECT().FindByID(gomock.Any(), bidderID).Return(&domain.User{ID: bidderID, Login: "alice"}, nil)
			},
			expectedBidder: &domain.User{ID: bidderID, Login: "alice"},
		},
		{
			name: "Error fetching current bidder",
			prepareMock: func() {
				repo.EXPECT().GetByID(gomock.Any(), 1).Return(&domain.Auction{ID: 1, CurrentBidderID: &bidderID}, nil)
				bidRepo.EXPECT().FindByAuction(gomock.Any(), 1).Return(nil, nil)
				userRepo.EXPECT().FindByID(gomock.Any(), bidderID).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
		{
			name: "Error fetching auction",
			prepareMock: func() {
				repo.EXPECT().GetByID(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			detail, err := service.GetDetail(context.Background(), 1)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Len(t, detail.Bids, tt.expectedBids)
				assert.Equal(t, tt.expectedBidder, detail.CurrentBidder)
			}
		})
	}
}

func TestListBySeller(t *testing.T) {
	service, repo, bidRepo, _ := NewMock(t)

	repo.EXPECT().FindBySeller(gomock.Any(), 10).Return([]domain.Auction{{ID: 1}, {ID: 2}}, nil)
	bidRepo.EXPECT().CountBiddersByAuction(gomock.Any(), 1).Return(2, nil)
	bidRepo.EXPECT().CountBiddersByAuction(gomock.Any(), 2).Return(0, nil)

	summaries, err := service.ListBySeller(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].BidderCount)
	assert.Equal(t, 0, summaries[1].BidderCount)
}
