package service

import (
	"github.com/GlebRadaev/gobid/internal/handlers/auctions"
	"github.com/GlebRadaev/gobid/internal/handlers/auth"
	"github.com/GlebRadaev/gobid/internal/handlers/bids"

	pkgauth "github.com/GlebRadaev/gobid/pkg/auth"
	"github.com/GlebRadaev/gobid/pkg/keylock"

	"github.com/GlebRadaev/gobid/internal/pg"
	"github.com/GlebRadaev/gobid/internal/repo"
	auctionservice "github.com/GlebRadaev/gobid/internal/service/auctionservice"
	authservice "github.com/GlebRadaev/gobid/internal/service/authservice"
	bidservice "github.com/GlebRadaev/gobid/internal/service/bidservice"
)

type Services struct {
	AuthService    auth.Service
	AuctionService auctions.Service
	BidService     bids.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, locks *keylock.KeyLock) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})
	auctionService := auctionservice.New(repo.AuctionRepo, repo.BidRepo, repo.UserRepo)
	bidService := bidservice.New(repo.AuctionRepo, repo.BidRepo, txManager, locks)

	return &Services{
		AuthService:    authService,
		AuctionService: auctionService,
		BidService:     bidService,
	}
}
