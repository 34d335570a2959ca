package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ActiveAuctionStatus торги идут, ставки принимаются;
	ActiveAuctionStatus string = "active"
	// EndedAuctionStatus торги завершены, есть победившая ставка;
	EndedAuctionStatus string = "ended"
	// NoBidAuctionStatus торги завершены без единой ставки.
	NoBidAuctionStatus string = "no_bid"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Auction struct {
	ID              int             `db:"id"`
	SellerID        int             `db:"seller_id"`
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	Images          []string        `db:"images"`
	StartingPrice   decimal.Decimal `db:"starting_price"`
	CurrentPrice    decimal.Decimal `db:"current_price"`
	MinIncrement    decimal.Decimal `db:"min_increment"`
	CurrentBidderID *int            `db:"current_bidder_id"`
	Status          string          `db:"status"`
	EndTime         time.Time       `db:"end_time"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

type Bid struct {
	ID        int             `db:"id"`
	AuctionID int             `db:"auction_id"`
	BidderID  int             `db:"bidder_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

// BidderBid ставка пользователя вместе с текущим состоянием её аукциона.
type BidderBid struct {
	Bid
	AuctionTitle    string          `db:"title"`
	AuctionStatus   string          `db:"status"`
	EndTime         time.Time       `db:"end_time"`
	CurrentPrice    decimal.Decimal `db:"current_price"`
	CurrentBidderID *int            `db:"current_bidder_id"`
}

// AuctionBid ставка в истории аукциона вместе с логином её автора.
type AuctionBid struct {
	Bid
	BidderLogin string `db:"login"`
}
