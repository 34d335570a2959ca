package bidrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/gobid/internal/domain"
	"github.com/GlebRadaev/gobid/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Save(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (auction_id, bidder_id, amount)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, bid.AuctionID, bid.BidderID, bid.Amount).Scan(&bid.ID, &bid.CreatedAt)
		if err != nil {
			zap.L().Error("can't save bid", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) FindByAuction(ctx context.Context, auctionID int) ([]domain.AuctionBid, error) {
	query := `
        SELECT b.id, b.auction_id, b.bidder_id, b.amount, b.created_at, u.login
        FROM bids b
        JOIN users u ON b.bidder_id = u.id
        WHERE b.auction_id = $1
        ORDER BY b.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		zap.L().Error("can't get auction bids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var bids []domain.AuctionBid
	for rows.Next() {
		var bid domain.AuctionBid
		err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.CreatedAt, &bid.BidderLogin)
		if err != nil {
			zap.L().Error("can't scan bid row", zap.Error(err))
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func (r *Repository) FindByBidder(ctx context.Context, bidderID int) ([]domain.BidderBid, error) {
	query := `
        SELECT b.id, b.auction_id, b.bidder_id, b.amount, b.created_at,
               a.title, a.status, a.end_time, a.current_price, a.current_bidder_id
        FROM bids b
        JOIN auctions a ON b.auction_id = a.id
        WHERE b.bidder_id = $1
        ORDER BY b.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, bidderID)
	if err != nil {
		zap.L().Error("can't get bidder bids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var bids []domain.BidderBid
	for rows.Next() {
		var bid domain.BidderBid
		err := rows.Scan(
			&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.CreatedAt,
			&bid.AuctionTitle, &bid.AuctionStatus, &bid.EndTime, &bid.CurrentPrice, &bid.CurrentBidderID,
		)
		if err != nil {
			zap.L().Error("can't scan bidder bid row", zap.Error(err))
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func (r *Repository) CountByAuction(ctx context.Context, auctionID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bids WHERE auction_id = $1`, auctionID).Scan(&count)
	if err != nil {
		zap.L().Error("can't count auction bids", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *Repository) CountBiddersByAuction(ctx context.Context, auctionID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT bidder_id) FROM bids WHERE auction_id = $1`, auctionID).Scan(&count)
	if err != nil {
		zap.L().Error("can't count auction bidders", zap.Error(err))
		return 0, err
	}
	return count, nil
}
