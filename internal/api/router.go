package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhive/marketplace-api/internal/api/handler"
	"github.com/stayhive/marketplace-api/internal/api/middleware"
	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/service"
	mongorepo "github.com/stayhive/marketplace-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/stayhive/marketplace-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	listingRepo := mongorepo.NewListingRepository(db)
	bookingRepo := mongorepo.NewBookingRepository(db)
	dedup := redisinfra.NewDedupChecker(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	listingService := service.NewListingService(listingRepo, log)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, userRepo, dedup, log)

	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(listingService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	authRequired := middleware.Auth(jwtSecret)
	hostOnly := middleware.RequireRole(domain.RoleHost)

	// --- Auth / profile routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/users/me", authHandler.Me, authRequired)
	e.PUT("/users/me", authHandler.UpdateMe, authRequired)

	// --- Listing catalog ---
	e.GET("/listings", listingHandler.Search)
	e.GET("/listings/host/my-listings", listingHandler.MyListings, authRequired, hostOnly)
	e.GET("/listings/:id", listingHandler.Get)
	e.POST("/listings", listingHandler.Create, authRequired, hostOnly)
	e.PUT("/listings/:id", listingHandler.Update, authRequired, hostOnly)
	e.DELETE("/listings/:id", listingHandler.Delete, authRequired, hostOnly)

	// --- Booking engine ---
	e.POST("/bookings", bookingHandler.Create, authRequired)
	e.GET("/bookings", bookingHandler.List, authRequired)
	e.GET("/bookings/:id", bookingHandler.Get, authRequired)
	e.PUT("/bookings/:id/status", bookingHandler.UpdateStatus, authRequired)
	e.PUT("/bookings/:id/cancel", bookingHandler.Cancel, authRequired)
	e.PUT("/bookings/:id/review", bookingHandler.Review, authRequired)

	// --- Health probes and ops endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
