package repo

import (
	"github.com/GlebRadaev/gobid/internal/pg"
	auctionrepo "github.com/GlebRadaev/gobid/internal/repo/auction-repo"
	bidrepo "github.com/GlebRadaev/gobid/internal/repo/bid-repo"
	userrepo "github.com/GlebRadaev/gobid/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	AuctionRepo *auctionrepo.Repository
	BidRepo     *bidrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	auctionRepo := auctionrepo.New(conn, txManager)
	bidRepo := bidrepo.New(conn, txManager)

	return &Repositories{
		UserRepo:    userRepo,
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
	}
}
