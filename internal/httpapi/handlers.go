package httpapi

import (
	"net/http"
	"strconv"

	"dryfruto/storefront/internal/domain"
	"dryfruto/storefront/internal/domain/event"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		log.Warnf("⚠️ Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func (s *Server) seed(c *gin.Context) {
	result, err := s.seeder.Seed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{
		"message": result.Message(),
		"status":  string(result.Status),
	}
	if result.Status == domain.SeedStatusSeeded {
		for _, coll := range domain.CatalogCollections {
			body[coll.ResponseKey()] = result.Count(coll)
		}
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) listCategories(c *gin.Context) {
	items, err := s.catalog.Categories(c.Request.Context())
	respondList(c, items, err)
}

func (s *Server) listProducts(c *gin.Context) {
	items, err := s.catalog.Products(c.Request.Context(), c.Query("category"))
	respondList(c, items, err)
}

func (s *Server) listHeroSlides(c *gin.Context) {
	items, err := s.catalog.HeroSlides(c.Request.Context())
	respondList(c, items, err)
}

func (s *Server) listTestimonials(c *gin.Context) {
	items, err := s.catalog.Testimonials(c.Request.Context())
	respondList(c, items, err)
}

func (s *Server) listGiftBoxes(c *gin.Context) {
	items, err := s.catalog.GiftBoxes(c.Request.Context())
	respondList(c, items, err)
}

func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.settings.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) updateSettings(c *gin.Context) {
	var partial domain.SiteSettings
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload: " + err.Error()})
		return
	}

	settings, err := s.settings.Update(c.Request.Context(), partial)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// recentEvents returns the newest published events of one type.
func (s *Server) recentEvents(c *gin.Context) {
	eventType := c.Param("type")
	if !event.IsKnown(eventType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type: " + eventType})
		return
	}

	limit := int64(defaultEventLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxEventLimit)
	}

	records, err := s.events.Recent(c.Request.Context(), eventType, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
