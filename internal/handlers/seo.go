package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
	"github.com/adjamedev/transport-marketplace/internal/seo"
)

// ContentGenerator produces SEO copy for a city pair from its current
// offerings.
type ContentGenerator interface {
	GenerateRouteContent(ctx context.Context, departure, arrival string, routes []seo.RouteInfo) (*seo.Content, error)
}

// SEOHandler generates landing-page copy for a city pair on demand.
type SEOHandler struct {
	generator ContentGenerator
	enhanced  db.EnhancedRouteCollection
}

func NewSEOHandler(generator ContentGenerator, enhanced db.EnhancedRouteCollection) *SEOHandler {
	return &SEOHandler{generator: generator, enhanced: enhanced}
}

type generateSEORequest struct {
	Departure  string `json:"departure"`
	Arrival    string `json:"arrival"`
	RoutesData []struct {
		MinPrice int    `json:"minPrice"`
		MaxPrice int    `json:"maxPrice"`
		Duration string `json:"duration"`
		BusType  string `json:"busType"`
	} `json:"routesData"`
}

// Generate handles POST /api/seo/generate-seo. Route context comes from the
// request when the client sends it, otherwise from the comparison projection.
func (h *SEOHandler) Generate(c *gin.Context) {
	var body generateSEORequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Villes de départ et d'arrivée requises"})
		return
	}
	body.Departure = strings.TrimSpace(body.Departure)
	body.Arrival = strings.TrimSpace(body.Arrival)
	if body.Departure == "" || body.Arrival == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Villes de départ et d'arrivée requises"})
		return
	}

	infos := make([]seo.RouteInfo, 0, len(body.RoutesData))
	for _, r := range body.RoutesData {
		infos = append(infos, seo.RouteInfo{
			MinPrice: r.MinPrice,
			MaxPrice: r.MaxPrice,
			Duration: r.Duration,
			BusType:  r.BusType,
		})
	}
	if len(infos) == 0 {
		infos = h.offerings(c, body.Departure, body.Arrival)
	}

	content, err := h.generator.GenerateRouteContent(c.Request.Context(), body.Departure, body.Arrival, infos)
	if err != nil {
		logrus.WithError(err).Error("seo generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erreur lors de la génération du contenu SEO"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"content": content,
	})
}

func (h *SEOHandler) offerings(c *gin.Context, departure, arrival string) []seo.RouteInfo {
	key := models.RouteKey(departure, arrival)
	offerings, err := h.enhanced.FindActiveByKey(c.Request.Context(), key)
	if err != nil {
		logrus.WithError(err).Warn("offerings unavailable for seo prompt")
		return nil
	}
	infos := make([]seo.RouteInfo, 0, len(offerings))
	for _, o := range offerings {
		infos = append(infos, seo.RouteInfo{
			MinPrice: o.PriceRange.Min,
			MaxPrice: o.PriceRange.Max,
			Duration: o.EstimatedDuration,
			BusType:  o.BusType,
		})
	}
	return infos
}
