package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ugis90/playlistplayer/internal/config"
	accountsvc "github.com/ugis90/playlistplayer/internal/services/accounts"
	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
	catalogsvc "github.com/ugis90/playlistplayer/internal/services/catalog"
	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	AccountService *accountsvc.Service
	CatalogService *catalogsvc.Service
	FleetService   *fleetsvc.Service
	Health         *handlers.HealthHandler
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService, handlers.CookieConfig{
		Name:   deps.Config.Auth.CookieName,
		Domain: deps.Config.Auth.CookieDomain,
		Secure: deps.Config.Auth.CookieSecure,
	})
	accountHandler := handlers.NewAccountHandler(deps.AccountService)
	categoryHandler := handlers.NewCategoryHandler(deps.CatalogService)
	playlistHandler := handlers.NewPlaylistHandler(deps.CatalogService)
	songHandler := handlers.NewSongHandler(deps.CatalogService)
	vehicleHandler := handlers.NewVehicleHandler(deps.FleetService)
	tripHandler := handlers.NewTripHandler(deps.FleetService)
	fuelHandler := handlers.NewFuelHandler(deps.FleetService)
	maintenanceHandler := handlers.NewMaintenanceHandler(deps.FleetService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole("Administrator")

	healthHandler := deps.Health
	if healthHandler == nil {
		healthHandler = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", healthHandler.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", accountHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/accessToken", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		// Catalog reads are public; category mutations are reserved for
		// administrators, the rest for any authenticated user.
		r.Get("/categories", categoryHandler.List)
		r.Get("/categories/{categoryID}", categoryHandler.Get)
		r.Get("/categories/{categoryID}/playlists", playlistHandler.List)
		r.Get("/playlists/{playlistID}", playlistHandler.Get)
		r.Get("/playlists/{playlistID}/cover", playlistHandler.GetCover)
		r.Get("/playlists/{playlistID}/songs", songHandler.List)
		r.Get("/songs/{songID}", songHandler.Get)

		r.With(authMW, adminMW).Post("/categories", categoryHandler.Create)
		r.With(authMW, adminMW).Put("/categories/{categoryID}", categoryHandler.Update)
		r.With(authMW, adminMW).Delete("/categories/{categoryID}", categoryHandler.Delete)

		r.With(authMW).Post("/categories/{categoryID}/playlists", playlistHandler.Create)
		r.With(authMW).Put("/playlists/{playlistID}", playlistHandler.Update)
		r.With(authMW).Delete("/playlists/{playlistID}", playlistHandler.Delete)
		r.With(authMW).Post("/playlists/{playlistID}/cover", playlistHandler.UploadCover)
		r.With(authMW).Post("/playlists/{playlistID}/songs", songHandler.Create)
		r.With(authMW).Put("/songs/{songID}", songHandler.Update)
		r.With(authMW).Delete("/songs/{songID}", songHandler.Delete)

		// Fleet endpoints are owner-scoped behind authentication.
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", vehicleHandler.Create)
			r.Get("/", vehicleHandler.List)
			r.Get("/{vehicleID}", vehicleHandler.Get)
			r.Put("/{vehicleID}", vehicleHandler.Update)
			r.Delete("/{vehicleID}", vehicleHandler.Delete)

			r.Post("/{vehicleID}/trips", tripHandler.Start)
			r.Get("/{vehicleID}/trips", tripHandler.List)

			r.Post("/{vehicleID}/fuel", fuelHandler.Create)
			r.Get("/{vehicleID}/fuel", fuelHandler.List)
			r.Delete("/{vehicleID}/fuel/{recordID}", fuelHandler.Delete)

			r.Post("/{vehicleID}/maintenance", maintenanceHandler.Create)
			r.Get("/{vehicleID}/maintenance", maintenanceHandler.List)
			r.Delete("/{vehicleID}/maintenance/{recordID}", maintenanceHandler.Delete)
		})

		r.With(authMW).Post("/trips/{tripID}/waypoints", tripHandler.AppendWaypoints)
		r.With(authMW).Post("/trips/{tripID}/finish", tripHandler.Finish)
	})
}
