package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/finansys/finansys-api/docs"
	"github.com/finansys/finansys-api/internal/api/handler"
	"github.com/finansys/finansys-api/internal/api/middleware"
	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
	"github.com/finansys/finansys-api/internal/core/service"
	"github.com/finansys/finansys-api/internal/core/token"
	"github.com/finansys/finansys-api/internal/infrastructure/config"
	mongodb "github.com/finansys/finansys-api/internal/infrastructure/db/mongo"
	redisdb "github.com/finansys/finansys-api/internal/infrastructure/db/redis"
	"github.com/finansys/finansys-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditTrail, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("finansys"))

	// --- Dependencies ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL())

	userRepo := mongodb.NewUserRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	entryRepo := mongodb.NewEntryRepository(db)
	totalsCache := redisdb.NewTotalsCache(rdb, log)

	authService := service.NewAuthService(userRepo, codec, audit, log)
	categoryService := service.NewCategoryService(categoryRepo, entryRepo, log)
	entryService := service.NewEntryService(entryRepo, categoryRepo, totalsCache, audit, log)

	authHandler := handler.NewAuthHandler(authService, audit)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	entryHandler := handler.NewEntryHandler(entryService)
	adminHandler := handler.NewAdminHandler(userRepo)

	// Every request passes the cookie authentication once; route-level
	// policy below decides whether an unauthenticated request is allowed.
	e.Use(middleware.Auth(codec, userRepo, cfg.PublicPaths, log))
	requireAuth := middleware.RequireAuth()

	// --- Auth routes (public prefix, except /auth/me) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/check-email/:email", authHandler.CheckEmail)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me)

	// --- Categories ---
	categories := e.Group("/categories", requireAuth)
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.GetAll)
	categories.GET("/paginated", categoryHandler.GetPaginated)
	categories.GET("/search", categoryHandler.Search)
	categories.GET("/count", categoryHandler.Count)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	// --- Entries ---
	entries := e.Group("/entries", requireAuth)
	entries.POST("", entryHandler.Create)
	entries.GET("", entryHandler.GetAll)
	entries.GET("/paginated", entryHandler.GetPaginated)
	entries.GET("/date-range", entryHandler.GetByDateRange)
	entries.GET("/summary", entryHandler.Summary)
	entries.GET("/count", entryHandler.Count)
	entries.GET("/category/:categoryId", entryHandler.GetByCategory)
	entries.GET("/type/:type", entryHandler.GetByType)
	entries.GET("/paid/:paid", entryHandler.GetByPaidStatus)
	entries.GET("/total/type/:type", entryHandler.TotalByType)
	entries.GET("/total/category/:categoryId", entryHandler.TotalByCategory)
	entries.GET("/:id", entryHandler.Get)
	entries.PUT("/:id", entryHandler.Update)
	entries.PATCH("/:id/paid", entryHandler.UpdatePaidStatus)
	entries.DELETE("/:id", entryHandler.Delete)

	// --- Admin ---
	admin := e.Group("/admin", middleware.RequireRole(string(domain.RoleAdmin)))
	admin.GET("/users", adminHandler.ListUsers)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoswagger.WrapHandler)

	return e
}
