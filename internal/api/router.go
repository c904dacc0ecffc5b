package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/qrvault/qrvault/docs"
	"github.com/qrvault/qrvault/internal/api/handler"
	"github.com/qrvault/qrvault/internal/api/middleware"
	"github.com/qrvault/qrvault/internal/core/domain"
	"github.com/qrvault/qrvault/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	credentials ports.CredentialService,
	qrcodes ports.QRCodeService,
	db *mongo.Database,
	rdb *redis.Client,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("qrvault"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(credentials)
	qrHandler := handler.NewQRCodeHandler(qrcodes)
	adminHandler := handler.NewAdminHandler(qrcodes, credentials)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- QR code routes (regular users) ---
	user := e.Group("/v1/qrcodes", authMiddleware, middleware.RBAC(domain.RoleUser))
	user.POST("", qrHandler.Generate)
	user.GET("", qrHandler.List)

	// --- Admin routes ---
	admin := e.Group("/v1/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/qrcodes", adminHandler.ListQRCodes)
	admin.DELETE("/qrcodes/:id", adminHandler.DeleteQRCode)
	admin.GET("/users", adminHandler.ListUsers)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
