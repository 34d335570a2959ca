package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/gobid/docs"
	auctionhandlers "github.com/GlebRadaev/gobid/internal/handlers/auctions"
	authhandlers "github.com/GlebRadaev/gobid/internal/handlers/auth"
	bidhandlers "github.com/GlebRadaev/gobid/internal/handlers/bids"
	"github.com/GlebRadaev/gobid/internal/service"
	"github.com/GlebRadaev/gobid/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type AuctionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetDetail(w http.ResponseWriter, r *http.Request)
	MyListings(w http.ResponseWriter, r *http.Request)
}

type BidHandler interface {
	PlaceBid(w http.ResponseWriter, r *http.Request)
	GetMyBids(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	AuctionHandler AuctionHandler
	BidHandler     BidHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		AuctionHandler: auctionhandlers.New(s.AuctionService),
		BidHandler:     bidhandlers.New(s.BidService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
	})
	r.Route("/api/auctions", func(r chi.Router) {
		r.Get("/", h.AuctionHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/", h.AuctionHandler.Create)
			r.Post("/{auctionID}/bids", h.BidHandler.PlaceBid)
			r.Get("/my/listings", h.AuctionHandler.MyListings)
			r.Get("/my/bids", h.BidHandler.GetMyBids)
		})

		r.With(auth.OptionalAuthMiddleware).Get("/{auctionID}", h.AuctionHandler.GetDetail)
	})

	return r
}
