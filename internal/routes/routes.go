package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/config"
	"github.com/straypaws/straymap/internal/handlers"
	"github.com/straypaws/straymap/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	sightingHandler *handlers.SightingHandler,
	sanctuaryHandler *handlers.SanctuaryHandler,
	geocodeHandler *handlers.GeocodeHandler,
	uploadDir string,
) {
	// Uploaded photos and logos are served as static files.
	app.Static(cfg.UploadBaseURL, uploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes, applied per route so the public ones above
	// stay reachable without a token
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/me", middleware.JWTProtected(cfg), userHandler.Me)

	// Sighting reads serve anonymous viewers too, so the token is
	// optional and only widens what the list returns
	api.Get("/sightings", middleware.OptionalJWT(cfg), sightingHandler.List)
	api.Get("/sightings/:id", middleware.OptionalJWT(cfg), sightingHandler.Get)
	api.Post("/sightings", middleware.JWTProtected(cfg), sightingHandler.Create)
	api.Delete("/sightings/:id", middleware.JWTProtected(cfg), sightingHandler.Delete)

	// Sanctuaries are public map data
	api.Get("/sanctuaries", middleware.OptionalJWT(cfg), sanctuaryHandler.List)
	api.Get("/sanctuaries/match", sanctuaryHandler.Match)
	api.Get("/sanctuaries/:id", middleware.OptionalJWT(cfg), sanctuaryHandler.Get)

	// Geocoding proxy
	api.Get("/geocode", geocodeHandler.Forward)
	api.Get("/geocode/reverse", geocodeHandler.Reverse)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db))
	admin.Post("/sanctuaries", sanctuaryHandler.Save)
	admin.Post("/sanctuaries/logo", sanctuaryHandler.UploadLogo)
	admin.Put("/sanctuaries/:id/approval", sanctuaryHandler.SetApproval)
	admin.Delete("/sanctuaries/:id", sanctuaryHandler.Delete)
	admin.Put("/users/:id/role", userHandler.SwitchRole)
	admin.Get("/deletion-log", sightingHandler.DeletionLog)
}
