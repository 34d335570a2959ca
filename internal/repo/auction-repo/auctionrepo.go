package auctionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
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

const auctionColumns = `id, seller_id, title, description, images, starting_price, current_price, min_increment, current_bidder_id, status, end_time, created_at, updated_at`

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	var auction domain.Auction
	var images []byte
	err := row.Scan(
		&auction.ID, &auction.SellerID, &auction.Title, &auction.Description, &images,
		&auction.StartingPrice, &auction.CurrentPrice, &auction.MinIncrement,
		&auction.CurrentBidderID, &auction.Status, &auction.EndTime,
		&auction.CreatedAt, &auction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &auction.Images); err != nil {
			return nil, fmt.Errorf("can't decode auction images: %w", err)
		}
	}
	return &auction, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE id = $1
    `
	auction, err := scanAuction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

func (r *Repository) Create(ctx context.Context, auction *domain.Auction) (*domain.Auction, error) {
	images, err := json.Marshal(auction.Images)
	if err != nil {
		return nil, fmt.Errorf("can't encode auction images: %w", err)
	}
	query := `
        INSERT INTO auctions (seller_id, title, description, images, starting_price, current_price, min_increment, status, end_time)
        VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err = r.db.QueryRow(ctx, query,
		auction.SellerID, auction.Title, auction.Description, images,
		auction.StartingPrice, auction.MinIncrement, auction.Status, auction.EndTime,
	).Scan(&auction.ID, &auction.CreatedAt, &auction.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

type ListParams struct {
	Page    int
	PerPage int
	Status  string
	OrderBy string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Auction, int, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
    `
	args := []any{}
	if params.Status != "" {
		args = append(args, params.Status)
		query += ` WHERE status = $1`
	}
	switch params.OrderBy {
	case "end_time":
		query += ` ORDER BY end_time ASC`
	default:
		query += ` ORDER BY created_at DESC`
	}
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.PerPage, (params.Page-1)*params.PerPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't list auctions", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	auctions, err := collectAuctions(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM auctions`
	countArgs := []any{}
	if params.Status != "" {
		countQuery += ` WHERE status = $1`
		countArgs = append(countArgs, params.Status)
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		zap.L().Error("can't count auctions", zap.Error(err))
		return nil, 0, err
	}
	return auctions, total, nil
}

func (r *Repository) FindBySeller(ctx context.Context, sellerID int) ([]domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE seller_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		zap.L().Error("can't get seller auctions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return collectAuctions(rows)
}

func (r *Repository) FindActive(ctx context.Context) ([]domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE status = $1
    `
	rows, err := r.db.Query(ctx, query, domain.ActiveAuctionStatus)
	if err != nil {
		zap.L().Error("can't get active auctions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return collectAuctions(rows)
}

func (r *Repository) UpdatePrice(ctx context.Context, id int, price decimal.Decimal, bidderID int) error {
	query := `
        UPDATE auctions
        SET current_price = $1, current_bidder_id = $2, updated_at = now()
        WHERE id = $3 AND status = $4
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, price, bidderID, id, domain.ActiveAuctionStatus)
		if err != nil {
			zap.L().Error("can't update auction price", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE auctions
        SET status = $1, updated_at = now()
        WHERE id = $2
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, status, id)
		if err != nil {
			zap.L().Error("can't update auction status", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func collectAuctions(rows pgx.Rows) ([]domain.Auction, error) {
	var auctions []domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			zap.L().Error("can't scan auction row", zap.Error(err))
			return nil, err
		}
		auctions = append(auctions, *auction)
	}
	return auctions, rows.Err()
}
