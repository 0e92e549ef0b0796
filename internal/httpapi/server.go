package httpapi

import (
	"context"
	"net/http"
	"time"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/observability"
	"dryfruto/storefront/internal/queue"
	"dryfruto/storefront/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router         *gin.Engine
	basePath       string
	requestTimeout time.Duration

	store    Pinger
	seeder   *service.Seeder
	settings *service.SettingsStore
	catalog  *service.Catalog
	events   queue.Reader
}

func NewServer(
	cfg config.ServerConfig,
	store Pinger,
	seeder *service.Seeder,
	settings *service.SettingsStore,
	catalog *service.Catalog,
	events queue.Reader,
) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger())
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Warnf("⚠️ Failed to set trusted proxies: %v", err)
	}

	s := &Server{
		router:         r,
		basePath:       cfg.BasePath,
		requestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		store:          store,
		seeder:         seeder,
		settings:       settings,
		catalog:        catalog,
		events:         events,
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes := s.routes()
	routes.Use(s.timeout())

	routes.GET("/health", s.health)
	routes.POST("/seed-data", s.seed)

	routes.GET("/categories", s.listCategories)
	routes.GET("/products", s.listProducts)
	routes.GET("/hero-slides", s.listHeroSlides)
	routes.GET("/testimonials", s.listTestimonials)
	routes.GET("/gift-boxes", s.listGiftBoxes)

	routes.GET("/site-settings", s.getSettings)
	routes.PUT("/site-settings", s.updateSettings)

	routes.GET("/events/:type", s.recentEvents)
}

func (s *Server) routes() *gin.RouterGroup {
	return s.router.Group(s.basePath)
}

// timeout bounds every store-backed request.
func (s *Server) timeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.requestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
