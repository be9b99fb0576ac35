package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

// EnhancedRouteHandler serves the comparison view over the denormalized
// projection, falling back to the normalized routes when the projection has
// no document for a city pair yet.
type EnhancedRouteHandler struct {
	enhanced  db.EnhancedRouteCollection
	routes    db.RouteCollection
	companies db.CompanyCollection
}

func NewEnhancedRouteHandler(enhanced db.EnhancedRouteCollection, routes db.RouteCollection, companies db.CompanyCollection) *EnhancedRouteHandler {
	return &EnhancedRouteHandler{enhanced: enhanced, routes: routes, companies: companies}
}

type comparisonEntry struct {
	models.EnhancedRoute
	Company *models.CompanyContact `json:"company,omitempty"`
}

// Comparison handles GET /api/enhanced-routes/comparison/:departure/:arrival.
func (h *EnhancedRouteHandler) Comparison(c *gin.Context) {
	departure := strings.TrimSpace(c.Param("departure"))
	arrival := strings.TrimSpace(c.Param("arrival"))
	if departure == "" || arrival == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Villes de départ et d'arrivée requises"})
		return
	}

	key := models.RouteKey(departure, arrival)
	enhanced, err := h.enhanced.FindActiveByKey(c.Request.Context(), key)
	if err != nil {
		logrus.WithError(err).Error("comparison lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}

	if len(enhanced) == 0 {
		enhanced, err = h.fallback(c, departure, arrival)
		if err != nil {
			logrus.WithError(err).Error("comparison fallback failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
			return
		}
	}

	c.JSON(http.StatusOK, h.withCompanies(c, enhanced))
}

// fallback builds comparison entries directly from active normalized routes,
// cheapest first, when no projection document exists for the city pair.
func (h *EnhancedRouteHandler) fallback(c *gin.Context, departure, arrival string) ([]models.EnhancedRoute, error) {
	routes, err := h.routes.FindActiveByCities(c.Request.Context(), departure, arrival)
	if err != nil {
		return nil, err
	}
	entries := make([]models.EnhancedRoute, 0, len(routes))
	for _, r := range routes {
		entries = append(entries, models.ComparisonFromRoute(r))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PriceRange.Min < entries[j].PriceRange.Min
	})
	return entries, nil
}

func (h *EnhancedRouteHandler) withCompanies(c *gin.Context, entries []models.EnhancedRoute) []comparisonEntry {
	ids := make([]primitive.ObjectID, 0, len(entries))
	seen := map[primitive.ObjectID]bool{}
	for _, e := range entries {
		if !seen[e.CompanyID] {
			seen[e.CompanyID] = true
			ids = append(ids, e.CompanyID)
		}
	}

	companies, err := h.companies.FindByIDs(c.Request.Context(), ids)
	if err != nil {
		logrus.WithError(err).Warn("company contacts unavailable for comparison")
		companies = map[primitive.ObjectID]models.Company{}
	}

	out := make([]comparisonEntry, 0, len(entries))
	for _, e := range entries {
		entry := comparisonEntry{EnhancedRoute: e}
		if company, ok := companies[e.CompanyID]; ok {
			contact := company.Contact()
			entry.Company = &contact
			if entry.CompanyName == "" {
				entry.CompanyName = company.CompanyName
			}
		}
		out = append(out, entry)
	}
	return out
}

type createEnhancedRequest struct {
	DepartureCity     string                    `json:"departureCity"`
	ArrivalCity       string                    `json:"arrivalCity"`
	DepartureStations []models.DepartureStation `json:"departureStations"`
	PriceRange        models.PriceRange         `json:"priceRange"`
	EstimatedDuration string                    `json:"estimatedDuration"`
	BusType           string                    `json:"busType"`
	Amenities         []string                  `json:"amenities"`
	ContactPhone      string                    `json:"contactPhone"`
	WhatsappNumber    string                    `json:"whatsappNumber"`
	CanBookOnline     bool                      `json:"canBookOnline"`
	BookingURL        string                    `json:"bookingUrl"`
}

// Create handles POST /api/enhanced-routes. The route key is always derived
// server-side from the city pair.
func (h *EnhancedRouteHandler) Create(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	var body createEnhancedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	body.DepartureCity = strings.TrimSpace(body.DepartureCity)
	body.ArrivalCity = strings.TrimSpace(body.ArrivalCity)
	if body.DepartureCity == "" || body.ArrivalCity == "" || body.PriceRange.Min <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}
	if body.BusType == "" {
		body.BusType = models.BusTypeComfort
	}
	if !models.ValidBusType(body.BusType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type de bus invalide"})
		return
	}
	if body.PriceRange.Max < body.PriceRange.Min {
		body.PriceRange.Max = body.PriceRange.Min
	}
	if body.EstimatedDuration == "" {
		body.EstimatedDuration = models.DefaultEstimatedDuration
	}

	route := models.EnhancedRoute{
		RouteKey:          models.RouteKey(body.DepartureCity, body.ArrivalCity),
		DepartureCity:     body.DepartureCity,
		ArrivalCity:       body.ArrivalCity,
		CompanyID:         companyID,
		DepartureStations: body.DepartureStations,
		PriceRange:        body.PriceRange,
		EstimatedDuration: body.EstimatedDuration,
		BusType:           body.BusType,
		Amenities:         body.Amenities,
		ContactPhone:      body.ContactPhone,
		WhatsappNumber:    body.WhatsappNumber,
		CanBookOnline:     body.CanBookOnline,
		BookingURL:        body.BookingURL,
		Status:            models.StatusActive,
	}
	if company, err := h.companies.FindByID(c.Request.Context(), companyID.Hex()); err == nil {
		route.CompanyName = company.CompanyName
	}

	id, err := h.enhanced.Insert(c.Request.Context(), route)
	if err != nil {
		logrus.WithError(err).Error("enhanced route insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	route.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "Route enrichie créée avec succès",
		"route":   route,
	})
}
