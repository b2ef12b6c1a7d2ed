package api

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/storefront/commerce-api/docs"
	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
	mongoaudit "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	rediscache "github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational"
	"github.com/storefront/commerce-api/internal/infrastructure/security"
)

// RouterConfig lists what NewRouter wires together. DB and Tokens are
// required; Redis, Mongo and Audit are optional and switch off the identity
// cache, the audit endpoint and audit publishing respectively.
type RouterConfig struct {
	DB     *bun.DB
	Redis  *redis.Client
	Mongo  *mongo.Database
	Audit  ports.AuditPublisher
	Tokens *service.TokenService

	BcryptCost int
	CacheTTL   time.Duration

	// Metrics receives the HTTP request collectors and backs /metrics.
	// Nil uses the prometheus default registry.
	Metrics *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)
	e.Validator = handler.NewValidator()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Metrics != nil {
		registerer, gatherer = cfg.Metrics, cfg.Metrics
	}

	// --- Dependencies ---
	customerRepo := relational.NewCustomerRepository(cfg.DB)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	var cache ports.IdentityCache
	if cfg.Redis != nil {
		cache = rediscache.NewIdentityCache(cfg.Redis, cfg.CacheTTL)
	}
	identities := service.NewIdentityService(customerRepo, cache, cfg.Log.With().Str("component", "identity").Logger())

	authService := service.NewAuthService(
		customerRepo,
		hasher,
		service.NewPasswordVerifier(customerRepo, hasher),
		cfg.Audit,
		cfg.Log.With().Str("component", "auth").Logger(),
	)

	authHandler := handler.NewAuthHandler(authService, cfg.Tokens)
	customerHandler := handler.NewCustomerHandler(service.NewCustomerService(customerRepo, identities, cfg.Log))
	roleHandler := handler.NewRoleHandler(service.NewRoleService(relational.NewRoleRepository(cfg.DB), identities, cfg.Log))
	categoryHandler := handler.NewCategoryHandler(service.NewCategoryService(relational.NewCategoryRepository(cfg.DB)))
	tagHandler := handler.NewTagHandler(service.NewTagService(relational.NewTagRepository(cfg.DB)))
	addressHandler := handler.NewAddressHandler(service.NewAddressService(relational.NewShippingAddressRepository(cfg.DB), customerRepo))

	productRepo := relational.NewProductRepository(cfg.DB)
	productHandler := handler.NewProductHandler(service.NewProductService(productRepo))
	orderHandler := handler.NewOrderHandler(service.NewOrderService(
		relational.NewOrderRepository(cfg.DB),
		productRepo,
		customerRepo,
		cfg.Log.With().Str("component", "orders").Logger(),
	))
	reviewHandler := handler.NewReviewHandler(service.NewReviewService(relational.NewReviewRepository(cfg.DB), productRepo))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "commerce",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.IdentityWithConfig(middleware.IdentityConfig{
		// Signup and login never read the caller, so a stale token must not
		// block them.
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/auth/")
		},
		Tokens: cfg.Tokens,
		Loader: identities,
		Log:    cfg.Log.With().Str("component", "identity_filter").Logger(),
	}))

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Health checks, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(readinessChecks(cfg)).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	api := e.Group("/api", middleware.RequireIdentity())
	admin := middleware.RequireAuthority(domain.RoleAdmin)

	api.GET("/customers/me", customerHandler.Me)
	api.GET("/customers/:id", customerHandler.Get)
	api.DELETE("/customers/:id", customerHandler.Delete)
	api.POST("/customers/:id/roles/:roleId", customerHandler.AssignRole, admin)
	api.DELETE("/customers/:id/roles/:roleId", customerHandler.RevokeRole, admin)

	api.GET("/roles", roleHandler.List)
	api.GET("/roles/:id", roleHandler.Get)
	api.POST("/roles", roleHandler.Create, admin)
	api.PUT("/roles/:id", roleHandler.Update, admin)
	api.DELETE("/roles/:id", roleHandler.Delete, admin)

	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)
	api.POST("/categories", categoryHandler.Create)
	api.PUT("/categories/:id", categoryHandler.Update)
	api.DELETE("/categories/:id", categoryHandler.Delete)

	api.GET("/tags", tagHandler.List)
	api.GET("/tags/:id", tagHandler.Get)
	api.POST("/tags", tagHandler.Create)
	api.PUT("/tags/:id", tagHandler.Update)
	api.DELETE("/tags/:id", tagHandler.Delete)

	api.GET("/shipping-addresses/customer/:customerId", addressHandler.ListForCustomer)
	api.GET("/shipping-addresses/city/:city", addressHandler.ByCity, admin)
	api.GET("/shipping-addresses/country/:country", addressHandler.ByCountry, admin)
	api.GET("/shipping-addresses/:id", addressHandler.Get)
	api.POST("/shipping-addresses", addressHandler.Create)
	api.PUT("/shipping-addresses/:id", addressHandler.Update)
	api.DELETE("/shipping-addresses/:id", addressHandler.Delete)

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.POST("/products", productHandler.Create, admin)
	api.PUT("/products/:id", productHandler.Update, admin)
	api.DELETE("/products/:id", productHandler.Delete, admin)

	api.GET("/orders/customer/:customerId", orderHandler.ListForCustomer)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders", orderHandler.Create)
	api.PATCH("/orders/:id/status", orderHandler.UpdateStatus, admin)
	api.DELETE("/orders/:id", orderHandler.Delete)

	api.GET("/order-items/order/:orderId", orderHandler.ItemsForOrder)
	api.GET("/order-items/product/:productId", orderHandler.ItemsForProduct, admin)
	api.GET("/order-items/quantity/:quantity", orderHandler.ItemsAboveQuantity, admin)
	api.GET("/order-items/:id", orderHandler.GetItem)
	api.POST("/order-items", orderHandler.AddItem)
	api.PUT("/order-items/:id", orderHandler.UpdateItem)
	api.DELETE("/order-items/:id", orderHandler.DeleteItem)

	api.GET("/reviews", reviewHandler.List)
	api.GET("/reviews/product/:productId", reviewHandler.ListForProduct)
	api.GET("/reviews/:id", reviewHandler.Get)
	api.POST("/reviews", reviewHandler.Create)
	api.PUT("/reviews/:id", reviewHandler.Update)
	api.DELETE("/reviews/:id", reviewHandler.Delete)

	if cfg.Mongo != nil {
		auditHandler := handler.NewAuditHandler(mongoaudit.NewAuditRepository(cfg.Mongo))
		api.GET("/audit/auth-events", auditHandler.AuthEvents, admin)
	}

	return e
}

func readinessChecks(cfg RouterConfig) map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"database": cfg.DB.PingContext,
	}
	if cfg.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cfg.Redis.Ping(ctx).Err()
		}
	}
	if cfg.Mongo != nil {
		checks["mongodb"] = func(ctx context.Context) error {
			return cfg.Mongo.Client().Ping(ctx, readpref.Primary())
		}
	}
	return checks
}

// requestLogger writes one zerolog line per request. Errors are left to the
// central handler, which runs first because HandleError is set.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
