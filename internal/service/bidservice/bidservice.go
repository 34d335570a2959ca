package bidservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/gobid/internal/domain"
	"github.com/GlebRadaev/gobid/internal/pg"
	"github.com/GlebRadaev/gobid/pkg/keylock"
)

type AuctionRepo interface {
	GetByID(ctx context.Context, id int) (*domain.Auction, error)
	UpdatePrice(ctx context.Context, id int, price decimal.Decimal, bidderID int) error
}

type BidRepo interface {
	Save(ctx context.Context, bid *domain.Bid) error
	FindByBidder(ctx context.Context, bidderID int) ([]domain.BidderBid, error)
}

var (
	ErrInvalidAmount   = errors.New("bid amount must be greater than zero")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrSelfBid         = errors.New("cannot bid on your own auction")
	ErrAuctionClosed   = errors.New("auction is closed")
)

// BidTooLowError ставка ниже минимально допустимой; Minimum показывается
// пользователю.
type BidTooLowError struct {
	Minimum decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount must be at least %s", e.Minimum.StringFixed(2))
}

type Service struct {
	auctionRepo AuctionRepo
	bidRepo     BidRepo
	txManager   pg.TXManager
	locks       *keylock.KeyLock
	now         func() time.Time
}

func New(auctionRepo AuctionRepo, bidRepo BidRepo, txManager pg.TXManager, locks *keylock.KeyLock) *Service {
	return &Service{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		txManager:   txManager,
		locks:       locks,
		now:         time.Now,
	}
}

// PlaceBid проверяет и атомарно применяет одну ставку. Ставки на один
// аукцион сериализуются его замком: чтение текущей цены, проверки и
// запись выполняются, пока замок удерживается, поэтому две конкурирующие
// ставки не могут пройти проверку шага по одной и той же устаревшей цене.
func (s *Service) PlaceBid(ctx context.Context, auctionID, bidderID int, amount decimal.Decimal) (*domain.Bid, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	s.locks.Lock(auctionID)
	defer s.locks.Unlock(auctionID)

	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction == nil {
		return nil, ErrAuctionNotFound
	}
	if auction.SellerID == bidderID {
		return nil, ErrSelfBid
	}
	if auction.Status != domain.ActiveAuctionStatus {
		return nil, ErrAuctionClosed
	}
	// Просроченный аукцион закрыт для ставок, даже если статус ещё не
	// обновлён фоновой задачей.
	if !s.now().Before(auction.EndTime) {
		return nil, ErrAuctionClosed
	}

	minAmount := auction.CurrentPrice.Add(auction.MinIncrement)
	if amount.LessThan(minAmount) {
		return nil, &BidTooLowError{Minimum: minAmount}
	}

	bid := &domain.Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.bidRepo.Save(ctx, bid); err != nil {
			return err
		}
		return s.auctionRepo.UpdatePrice(ctx, auctionID, amount, bidderID)
	})
	if err != nil {
		zap.L().Error("can't place bid", zap.Int("auctionID", auctionID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("bid accepted",
		zap.Int("auctionID", auctionID),
		zap.Int("bidderID", bidderID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return bid, nil
}

func (s *Service) GetBidsForBidder(ctx context.Context, bidderID int) ([]domain.BidderBid, error) {
	bids, err := s.bidRepo.FindByBidder(ctx, bidderID)
	if err != nil {
		zap.L().Error("failed to get bids", zap.Error(err))
		return nil, err
	}
	return bids, nil
}
