package auctionservice

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/gobid/internal/domain"
	auctionrepo "github.com/GlebRadaev/gobid/internal/repo/auction-repo"
)

type Repo interface {
	GetByID(ctx context.Context, id int) (*domain.Auction, error)
	Create(ctx context.Context, auction *domain.Auction) (*domain.Auction, error)
	List(ctx context.Context, params auctionrepo.ListParams) ([]domain.Auction, int, error)
	FindBySeller(ctx context.Context, sellerID int) ([]domain.Auction, error)
}

type BidRepo interface {
	FindByAuction(ctx context.Context, auctionID int) ([]domain.AuctionBid, error)
	CountBiddersByAuction(ctx context.Context, auctionID int) (int, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

const minAuctionDuration = time.Hour

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrInvalidStartingPrice = errors.New("starting price must be greater than zero")
	ErrInvalidMinIncrement  = errors.New("minimum increment must be greater than zero")
	ErrEndTimeTooSoon       = errors.New("end time must be at least one hour in the future")
	ErrAuctionNotFound      = errors.New("auction not found")
)

type Service struct {
	auctionRepo Repo
	bidRepo     BidRepo
	userRepo    UserRepo
	now         func() time.Time
}

func New(auctionRepo Repo, bidRepo BidRepo, userRepo UserRepo) *Service {
	return &Service{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

type CreateParams struct {
	Title         string
	Description   string
	StartingPrice decimal.Decimal
	MinIncrement  decimal.Decimal
	EndTime       time.Time
	Images        []string
}

func (s *Service) Create(ctx context.Context, sellerID int, params CreateParams) (*domain.Auction, error) {
	if params.Title == "" {
		return nil, ErrTitleRequired
	}
	if params.Description == "" {
		return nil, ErrDescriptionRequired
	}
	if !params.StartingPrice.IsPositive() {
		return nil, ErrInvalidStartingPrice
	}
	if !params.MinIncrement.IsPositive() {
		return nil, ErrInvalidMinIncrement
	}
	if params.EndTime.Sub(s.now()) < minAuctionDuration {
		return nil, ErrEndTimeTooSoon
	}

	auction := &domain.Auction{
		SellerID:      sellerID,
		Title:         params.Title,
		Description:   params.Description,
		Images:        params.Images,
		StartingPrice: params.StartingPrice,
		CurrentPrice:  params.StartingPrice,
		MinIncrement:  params.MinIncrement,
		Status:        domain.ActiveAuctionStatus,
		EndTime:       params.EndTime,
	}
	created, err := s.auctionRepo.Create(ctx, auction)
	if err != nil {
		zap.L().Error("can't create auction", zap.Error(err))
		return nil, err
	}

	zap.L().Info("auction created", zap.Int("auctionID", created.ID), zap.Int("sellerID", sellerID))
	return created, nil
}

// AuctionSummary аукцион для страницы списка вместе с числом участников.
type AuctionSummary struct {
	domain.Auction
	BidderCount int
}

func (s *Service) List(ctx context.Context, page, perPage int, status, orderBy string) ([]AuctionSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	switch status {
	case domain.ActiveAuctionStatus, domain.EndedAuctionStatus, domain.NoBidAuctionStatus:
	default:
		status = ""
	}
	if orderBy != "end_time" {
		orderBy = "created_at"
	}

	auctions, total, err := s.auctionRepo.List(ctx, auctionrepo.ListParams{
		Page:    page,
		PerPage: perPage,
		Status:  status,
		OrderBy: orderBy,
	})
	if err != nil {
		zap.L().Error("failed to list auctions", zap.Error(err))
		return nil, 0, err
	}
	summaries, err := s.withBidderCounts(ctx, auctions)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// AuctionDetail аукцион вместе с историей ставок и текущим лидером.
type AuctionDetail struct {
	domain.Auction
	Bids          []domain.AuctionBid
	CurrentBidder *domain.User
}

func (s *Service) GetDetail(ctx context.Context, id int) (*AuctionDetail, error) {
	auction, err := s.auctionRepo.GetByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get auction", zap.Error(err))
		return nil, err
	}
	if auction == nil {
		return nil, ErrAuctionNotFound
	}

	bids, err := s.bidRepo.FindByAuction(ctx, id)
	if err != nil {
		zap.L().Error("failed to get auction bids", zap.Error(err))
		return nil, err
	}

	detail := &AuctionDetail{Auction: *auction, Bids: bids}
	if auction.CurrentBidderID != nil {
		bidder, err := s.userRepo.FindByID(ctx, *auction.CurrentBidderID)
		if err != nil {
			zap.L().Error("failed to get current bidder", zap.Error(err))
			return nil, err
		}
		detail.CurrentBidder = bidder
	}
	return detail, nil
}

func (s *Service) ListBySeller(ctx context.Context, sellerID int) ([]AuctionSummary, error) {
	auctions, err := s.auctionRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		zap.L().Error("failed to get seller auctions", zap.Error(err))
		return nil, err
	}
	return s.withBidderCounts(ctx, auctions)
}

func (s *Service) withBidderCounts(ctx context.Context, auctions []domain.Auction) ([]AuctionSummary, error) {
	summaries := make([]AuctionSummary, 0, len(auctions))
	for _, auction := range auctions {
		count, err := s.bidRepo.CountBiddersByAuction(ctx, auction.ID)
		if err != nil {
			zap.L().Error("failed to count bidders", zap.Int("auctionID", auction.ID), zap.Error(err))
			return nil, err
		}
		summaries = append(summaries, AuctionSummary{Auction: auction, BidderCount: count})
	}
	return summaries, nil
}
