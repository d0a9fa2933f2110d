package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/quickbites/ordering-api/docs"
	"github.com/quickbites/ordering-api/internal/api/handler"
	"github.com/quickbites/ordering-api/internal/api/middleware"
	"github.com/quickbites/ordering-api/internal/core/domain"
	"github.com/quickbites/ordering-api/internal/core/service"
	mongodb "github.com/quickbites/ordering-api/internal/infrastructure/db/mongo"
	redisdb "github.com/quickbites/ordering-api/internal/infrastructure/db/redis"
)

const tokenTTL = 7 * 24 * time.Hour

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
	e.Use(echoprometheus.NewMiddleware("ordering"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	idemStore := redisdb.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, tokenTTL)
	orderService := service.NewOrderService(orderRepo, userRepo, idemStore, log)

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)

	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Order routes (all require a verified token) ---
	orders := e.Group("/api/orders", authMiddleware)
	orders.POST("/new", orderHandler.Create, middleware.RBAC(domain.RoleUser))
	orders.GET("", orderHandler.ListAll, middleware.RBAC(domain.RoleAdmin))
	orders.GET("/my", orderHandler.ListMine, middleware.RBAC(domain.RoleUser))
	orders.PUT("/:id", orderHandler.UpdateStatus, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
