package bids

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
	"github.com/GlebRadaev/gobid/internal/service/bidservice"
	"github.com/GlebRadaev/gobid/pkg/auth"
	"github.com/GlebRadaev/gobid/pkg/utils"
	"github.com/GlebRadaev/gobid/pkg/validate"
)

type Service interface {
	PlaceBid(ctx context.Context, auctionID, bidderID int, amount decimal.Decimal) (*domain.Bid, error)
	GetBidsForBidder(ctx context.Context, bidderID int) ([]domain.BidderBid, error)
}

type BidHandler struct {
	bidService Service
}

func New(bidService Service) *BidHandler {
	return &BidHandler{
		bidService: bidService,
	}
}

// PlaceBid godoc
//
//	@Summary		Place a bid on an auction
//	@Description	Submit a bid that must exceed the current price by at least the auction's minimum increment.
//	@Tags			Bids
//	@Accept			json
//	@Produce		json
//	@Param			auctionID	path	int						true	"Auction ID"
//	@Param			request		body	dto.PlaceBidRequestDTO	true	"Bid amount"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.PlaceBidResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid or insufficient bid amount"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Sellers cannot bid on their own auctions"
//	@Failure		404	{object}	utils.Response	"Auction not found"
//	@Failure		409	{object}	utils.Response	"Auction is closed"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions/{auctionID}/bids [post]
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	bidderID := r.Context().Value(auth.UserIDKey).(int)

	auctionID, err := strconv.Atoi(chi.URLParam(r, "auctionID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid auction ID")
		return
	}
	var req dto.PlaceBidRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount := decimal.NewFromFloat(req.Amount)
	if !validate.IsMoney(amount) {
		utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive with at most two decimal places")
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), auctionID, bidderID, amount)
	if err != nil {
		var tooLow *bidservice.BidTooLowError
		switch {
		case errors.Is(err, bidservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &tooLow):
			utils.RespondWithError(w, http.StatusBadRequest, tooLow.Error())
		case errors.Is(err, bidservice.ErrAuctionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, bidservice.ErrSelfBid):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, bidservice.ErrAuctionClosed):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	resp := dto.PlaceBidResponseDTO{
		ID:        bid.ID,
		AuctionID: bid.AuctionID,
		CreatedAt: bid.CreatedAt.Format(time.RFC3339),
	}
	resp.Amount, _ = bid.Amount.Float64()
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GetMyBids godoc
//
//	@Summary		Get bids placed by the current user
//	@Description	Each entry carries the auction state and whether the user's bid is currently on top or has won.
//	@Tags			Bids
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetMyBidsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/auctions/my/bids [get]
func (h *BidHandler) GetMyBids(w http.ResponseWriter, r *http.Request) {
	bidderID := r.Context().Value(auth.UserIDKey).(int)

	bids, err := h.bidService.GetBidsForBidder(r.Context(), bidderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.GetMyBidsResponseDTO, 0, len(bids))
	for _, bid := range bids {
		// Флаг получает только та ставка, чья сумма совпадает с текущей ценой:
		// ранние, перебитые ставки того же пользователя не считаются.
		isHighest := bid.CurrentBidderID != nil && *bid.CurrentBidderID == bidderID &&
			bid.Amount.Equal(bid.CurrentPrice)
		item := dto.GetMyBidsResponseDTO{
			AuctionID:     bid.AuctionID,
			AuctionTitle:  bid.AuctionTitle,
			AuctionStatus: bid.AuctionStatus,
			CreatedAt:     bid.CreatedAt.Format(time.RFC3339),
			IsHighest:     isHighest && bid.AuctionStatus == domain.ActiveAuctionStatus,
			IsWinner:      isHighest && bid.AuctionStatus == domain.EndedAuctionStatus,
		}
		if bid.AuctionStatus == domain.ActiveAuctionStatus {
			if left := int(time.Until(bid.EndTime).Seconds()); left > 0 {
				item.TimeLeft = left
			}
		}
		item.Amount, _ = bid.Amount.Float64()
		item.CurrentPrice, _ = bid.CurrentPrice.Float64()
		resp = append(resp, item)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
