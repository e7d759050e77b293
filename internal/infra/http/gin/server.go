package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"wanderstay/internal/infra/config"
	"wanderstay/internal/infra/obs"
)

type CatalogHTTP interface {
	Search(c *gin.Context)
	Destination(c *gin.Context)
	Amenities(c *gin.Context)
	Suggestions(c *gin.Context)
}

type BookingHTTP interface {
	Quote(c *gin.Context)
	VerifyVehicle(c *gin.Context)
	Reserve(c *gin.Context)
}

type SuggestionHTTP interface {
	Serve(c *gin.Context)
}

type Handlers struct {
	Catalog     CatalogHTTP
	Booking     BookingHTTP
	Suggestions SuggestionHTTP
}

// maxUploadMemory bounds the in-memory part of a document upload.
const maxUploadMemory = 8 << 20

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Suggestions != nil {
		router.GET("/ws/suggestions", h.Suggestions.Serve)
	}

	api := router.Group("/api/v1")
	if h.Catalog != nil {
		api.GET("/destinations", h.Catalog.Search)
		api.GET("/destinations/:id", h.Catalog.Destination)
		api.GET("/amenities", h.Catalog.Amenities)
		api.GET("/suggestions", h.Catalog.Suggestions)
	}
	if h.Booking != nil {
		api.POST("/destinations/:id/quote", h.Booking.Quote)
		api.POST("/destinations/:id/vehicles/:vehicle_id/verification", h.Booking.VerifyVehicle)
		api.POST("/reservations", h.Booking.Reserve)
	}

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
