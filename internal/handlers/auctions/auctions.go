package auctions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/gobid/internal/domain"
	"github.com/GlebRadaev/gobid/internal/dto"
	auctionservice "github.com/GlebRadaev/gobid/internal/service/auctionservice"
	"github.com/GlebRadaev/gobid/pkg/auth"
	"github.com/GlebRadaev/gobid/pkg/utils"
	"github.com/GlebRadaev/gobid/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, sellerID int, params auctionservice.CreateParams) (*domain.Auction, error)
	List(ctx context.Context, page, perPage int, status, orderBy string) ([]auctionservice.AuctionSummary, int, error)
	GetDetail(ctx context.Context, id int) (*auctionservice.AuctionDetail, error)
	ListBySeller(ctx context.Context, sellerID int) ([]auctionservice.AuctionSummary, error)
}

type AuctionHandler struct {
	auctionService Service
}

func New(auctionService Service) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
	}
}

// Create godoc
//
//	@Summary		Create a new auction
//	@Description	List an item for auction with a starting price, a minimum bid increment and an end time at least one hour away.
//	@Tags			Auctions
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateAuctionRequestDTO	true	"Auction to create"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.AuctionResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body or parameters"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions [post]
func (h *AuctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateAuctionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid end time format")
		return
	}
	startingPrice := decimal.NewFromFloat(req.StartingPrice)
	minIncrement := decimal.NewFromFloat(req.MinIncrement)
	if !validate.IsMoney(startingPrice) || !validate.IsMoney(minIncrement) {
		utils.RespondWithError(w, http.StatusBadRequest, "Prices must be positive with at most two decimal places")
		return
	}

	auction, err := h.auctionService.Create(r.Context(), sellerID, auctionservice.CreateParams{
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: startingPrice,
		MinIncrement:  minIncrement,
		EndTime:       endTime,
		Images:        req.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, auctionservice.ErrTitleRequired),
			errors.Is(err, auctionservice.ErrDescriptionRequired),
			errors.Is(err, auctionservice.ErrInvalidStartingPrice),
			errors.Is(err, auctionservice.ErrInvalidMinIncrement),
			errors.Is(err, auctionservice.ErrEndTimeTooSoon):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toAuctionResponse(auction))
}

// List godoc
//
//	@Summary		List auctions
//	@Description	Retrieve a paginated list of auctions, optionally filtered by status and ordered by creation or end time.
//	@Tags			Auctions
//	@Produce		json
//	@Param			page		query	int		false	"Page number"
//	@Param			per_page	query	int		false	"Page size (max 100)"
//	@Param			status		query	string	false	"Filter by status"	Enums(active, ended, no_bid)
//	@Param			order_by	query	string	false	"Ordering"			Enums(created_at, end_time)
//	@Success		200	{object}	dto.ListAuctionsResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions [get]
func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = 20
	}
	status := r.URL.Query().Get("status")
	orderBy := r.URL.Query().Get("order_by")

	summaries, total, err := h.auctionService.List(r.Context(), page, perPage, status, orderBy)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := make([]dto.AuctionListItemDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toAuctionListItem(summary))
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ListAuctionsResponseDTO{
		Auctions: items,
		Pagination: dto.PaginationDTO{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   (total + perPage - 1) / perPage,
		},
	})
}

// GetDetail godoc
//
//	@Summary		Get auction details
//	@Description	Retrieve one auction with its bid history, current leader and remaining time. Bidder identities are masked unless the request is authenticated as the auction's seller.
//	@Tags			Auctions
//	@Produce		json
//	@Param			auctionID	path	int	true	"Auction ID"
//	@Success		200	{object}	dto.AuctionDetailResponseDTO
//	@Failure		404	{object}	utils.Response	"Auction not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions/{auctionID} [get]
func (h *AuctionHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	auctionID, err := strconv.Atoi(chi.URLParam(r, "auctionID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid auction ID")
		return
	}

	detail, err := h.auctionService.GetDetail(r.Context(), auctionID)
	if err != nil {
		if errors.Is(err, auctionservice.ErrAuctionNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Продавец видит полную историю и личность лидера, остальные — маски.
	userID, authed := r.Context().Value(auth.UserIDKey).(int)
	isSeller := authed && userID == detail.SellerID

	history := make([]dto.BidHistoryItemDTO, 0, len(detail.Bids))
	for _, bid := range detail.Bids {
		amount, _ := bid.Amount.Float64()
		bidder := maskLogin(bid.BidderLogin)
		if isSeller {
			bidder = bid.BidderLogin
		}
		history = append(history, dto.BidHistoryItemDTO{
			Amount:    amount,
			CreatedAt: bid.CreatedAt.Format(time.RFC3339),
			Bidder:    bidder,
		})
	}

	var currentBidder *dto.CurrentBidderDTO
	if detail.CurrentBidder != nil {
		if isSeller {
			currentBidder = &dto.CurrentBidderDTO{
				ID:    detail.CurrentBidder.ID,
				Login: detail.CurrentBidder.Login,
			}
		} else {
			currentBidder = &dto.CurrentBidderDTO{
				Login: maskLogin(detail.CurrentBidder.Login),
			}
		}
	}

	resp := dto.AuctionDetailResponseDTO{
		ID:            detail.ID,
		Title:         detail.Title,
		SellerID:      detail.SellerID,
		Status:        detail.Status,
		Images:        detail.Images,
		EndTime:       detail.EndTime.Format(time.RFC3339),
		TimeLeft:      timeLeft(&detail.Auction),
		CurrentBidder: currentBidder,
		BidHistory:    history,
	}
	resp.Description = detail.Description
	resp.StartingPrice, _ = detail.StartingPrice.Float64()
	resp.CurrentPrice, _ = detail.CurrentPrice.Float64()
	resp.MinIncrement, _ = detail.MinIncrement.Float64()
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// MyListings godoc
//
//	@Summary		Get auctions created by the current user
//	@Tags			Auctions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.AuctionListItemDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions/my/listings [get]
func (h *AuctionHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	sellerID := r.Context().Value(auth.UserIDKey).(int)

	summaries, err := h.auctionService.ListBySeller(r.Context(), sellerID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := make([]dto.AuctionListItemDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toAuctionListItem(summary))
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func toAuctionResponse(auction *domain.Auction) dto.AuctionResponseDTO {
	resp := dto.AuctionResponseDTO{
		ID:          auction.ID,
		Title:       auction.Title,
		Description: auction.Description,
		Status:      auction.Status,
		Images:      auction.Images,
		EndTime:     auction.EndTime.Format(time.RFC3339),
	}
	resp.StartingPrice, _ = auction.StartingPrice.Float64()
	resp.CurrentPrice, _ = auction.CurrentPrice.Float64()
	resp.MinIncrement, _ = auction.MinIncrement.Float64()
	return resp
}

func toAuctionListItem(summary auctionservice.AuctionSummary) dto.AuctionListItemDTO {
	item := dto.AuctionListItemDTO{
		ID:          summary.ID,
		Title:       summary.Title,
		Description: shortDescription(summary.Description),
		Status:      summary.Status,
		Images:      firstImage(summary.Images),
		EndTime:     summary.EndTime.Format(time.RFC3339),
		TimeLeft:    timeLeft(&summary.Auction),
		BidderCount: summary.BidderCount,
	}
	item.StartingPrice, _ = summary.StartingPrice.Float64()
	item.CurrentPrice, _ = summary.CurrentPrice.Float64()
	item.MinIncrement, _ = summary.MinIncrement.Float64()
	return item
}

func timeLeft(auction *domain.Auction) int {
	if auction.Status != domain.ActiveAuctionStatus {
		return 0
	}
	left := int(time.Until(auction.EndTime).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

const shortDescriptionLimit = 100

// shortDescription обрезает описание для страницы списка.
func shortDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= shortDescriptionLimit {
		return description
	}
	return string(runes[:shortDescriptionLimit]) + "..."
}

// firstImage в списке показываем только обложку.
func firstImage(images []string) []string {
	if len(images) == 0 {
		return nil
	}
	return images[:1]
}

func maskLogin(login string) string {
	if len(login) <= 1 {
		return "***"
	}
	return login[:1] + "***"
}
