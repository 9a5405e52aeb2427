// Package api wires the HTTP surface: router, middleware chain, handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/handler"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/health"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Catalog *catalog.Service
	Ledger  *ledger.Service
	Health  *health.Handler
	// Resolver maps a request to the caller's event scope. Defaults to
	// HeaderResolver when nil.
	Resolver middleware.Resolver
}

// NewRouter creates and configures a chi router with all middleware and
// routes. Event-scoped routes sit behind the identity middleware; auction
// event CRUD and health probes do not.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	r.Get("/healthz", deps.Health.LivenessHandler())
	r.Get("/readyz", deps.Health.ReadinessHandler())

	resolver := deps.Resolver
	if resolver == nil {
		resolver = middleware.HeaderResolver
	}

	auctionHandler := handler.NewAuctionHandler(deps.Catalog)
	teamHandler := handler.NewTeamHandler(deps.Catalog, deps.Ledger)
	playerHandler := handler.NewPlayerHandler(deps.Catalog, deps.Ledger)
	listingHandler := handler.NewListingHandler(deps.Catalog, deps.Ledger)

	r.Route("/v1/auctions", func(r chi.Router) {
		// Provisioning runs before any event scope exists, so it is gated on
		// the caller's role alone.
		r.With(middleware.RequireRole("admin")).Post("/", auctionHandler.Create)
		r.Get("/", auctionHandler.List)

		r.Route("/{auctionID}", func(r chi.Router) {
			r.Get("/", auctionHandler.GetByID)
			r.With(middleware.RequireRole("admin")).Delete("/", auctionHandler.Delete)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Identity(resolver))

				r.Route("/teams", func(r chi.Router) {
					r.Post("/", teamHandler.Create)
					r.Get("/", teamHandler.List)
					r.Get("/{teamID}", teamHandler.GetByID)
					r.Patch("/{teamID}", teamHandler.Update)
					r.Post("/{teamID}/reset", teamHandler.Reset)
				})

				r.Route("/players", func(r chi.Router) {
					r.Post("/", playerHandler.Create)
					r.Get("/", playerHandler.List)
					r.Get("/{playerID}", playerHandler.GetByID)
					r.Post("/{playerID}/return", playerHandler.Return)
				})

				r.Route("/listings", func(r chi.Router) {
					r.Post("/", listingHandler.Open)
					r.Get("/", listingHandler.List)
					r.Get("/active", listingHandler.Active)
					r.Get("/{listingID}", listingHandler.GetByID)
					r.Post("/{listingID}/bid", listingHandler.Bid)
					r.Post("/{listingID}/cancel", listingHandler.Cancel)
					r.Post("/{listingID}/sell", listingHandler.Sell)
					r.Post("/{listingID}/pass", listingHandler.Pass)
				})
			})
		})
	})

	return r
}
