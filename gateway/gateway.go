package gateway

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/booking"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/config"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/dispatch"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/realtime"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
)

// Gateway is the HTTP surface of the dispatch service.
type Gateway struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	booking  *booking.Service
	dispatch *dispatch.Client
	orders   *repository.OrderRepository
	profiles *repository.ProfileRepository
	redis    *repository.RedisRepository
	events   *repository.MongoRepository
	bridge   *realtime.Bridge
	validate *validatorSet
}

type Deps struct {
	Booking  *booking.Service
	Dispatch *dispatch.Client
	Orders   *repository.OrderRepository
	Profiles *repository.ProfileRepository
	Redis    *repository.RedisRepository
	Events   *repository.MongoRepository
	Bridge   *realtime.Bridge
}

func NewGateway(cfg *config.Config, logger *zap.Logger, deps Deps) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:   cfg,
		logger:   logger,
		router:   router,
		booking:  deps.Booking,
		dispatch: deps.Dispatch,
		orders:   deps.Orders,
		profiles: deps.Profiles,
		redis:    deps.Redis,
		events:   deps.Events,
		bridge:   deps.Bridge,
		validate: newValidatorSet(),
	}
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := g.router.Group("/api/v1")
	{
		v1.POST("/quotes", g.createQuote)

		orders := v1.Group("/orders")
		{
			orders.POST("", g.createOrder)
			orders.GET("", g.listOrders)
			orders.GET("/:id", g.getOrder)
			orders.PUT("/:id/status", g.updateOrderStatus)
			orders.PUT("/:id/rider", g.assignRider)
			orders.GET("/:id/events", g.listOrderEvents)
			orders.GET("/:id/stream", g.streamOrder)
		}

		riders := v1.Group("/riders")
		{
			riders.POST("", g.upsertRiderProfile)
			riders.GET("/nearby", g.nearbyRiders)
			riders.PUT("/:id/location", g.updateRiderLocation)
			riders.DELETE("/:id/location", g.removeRiderLocation)
		}

		v1.GET("/vendors", g.listVendors)
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.HTTPPort)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
