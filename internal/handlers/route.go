package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/middleware"
	"github.com/adjamedev/transport-marketplace/internal/models"
	"github.com/adjamedev/transport-marketplace/internal/projection"
)

// RouteHandler serves the normalized trip offerings of the marketplace.
type RouteHandler struct {
	routes    db.RouteCollection
	companies db.CompanyCollection
	worker    *projection.Worker
}

func NewRouteHandler(routes db.RouteCollection, companies db.CompanyCollection, worker *projection.Worker) *RouteHandler {
	return &RouteHandler{routes: routes, companies: companies, worker: worker}
}

// routeWithCompany is a route listing entry with the owning company's public
// contact embedded.
type routeWithCompany struct {
	models.Route
	Company *models.CompanyContact `json:"company,omitempty"`
}

// List handles GET /api/routes: every route, with company contacts attached.
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routes.FindAll(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("route listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	c.JSON(http.StatusOK, h.withCompanies(c, routes))
}

// ListByCompany handles GET /api/routes/company/:companyId.
func (h *RouteHandler) ListByCompany(c *gin.Context) {
	companyID, err := primitive.ObjectIDFromHex(c.Param("companyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de compagnie invalide"})
		return
	}
	routes, err := h.routes.FindByCompany(c.Request.Context(), companyID)
	if err != nil {
		logrus.WithError(err).Error("route listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	c.JSON(http.StatusOK, routes)
}

type createRouteRequest struct {
	Name             string               `json:"name"`
	DepartureCity    string               `json:"departureCity"`
	ArrivalCity      string               `json:"arrivalCity"`
	DepartureStation string               `json:"departureStation"`
	ArrivalStation   string               `json:"arrivalStation"`
	Price            int                  `json:"price"`
	RouteType        string               `json:"routeType"`
	DepartureTime    string               `json:"departureTime"`
	Features         models.RouteFeatures `json:"features"`
}

// Create handles POST /api/routes. The acting company comes from the token,
// never from the body.
func (h *RouteHandler) Create(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	var body createRouteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	body.DepartureCity = strings.TrimSpace(body.DepartureCity)
	body.ArrivalCity = strings.TrimSpace(body.ArrivalCity)
	body.DepartureTime = strings.TrimSpace(body.DepartureTime)
	if body.DepartureCity == "" || body.ArrivalCity == "" || body.DepartureTime == "" || body.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}
	if body.RouteType == "" {
		body.RouteType = models.RouteTypeStandard
	}
	if !models.ValidRouteType(body.RouteType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type de route invalide"})
		return
	}

	route := models.Route{
		Name:             body.Name,
		DepartureCity:    body.DepartureCity,
		ArrivalCity:      body.ArrivalCity,
		DepartureStation: strings.TrimSpace(body.DepartureStation),
		ArrivalStation:   strings.TrimSpace(body.ArrivalStation),
		Price:            body.Price,
		RouteType:        body.RouteType,
		DepartureTime:    body.DepartureTime,
		CompanyID:        companyID,
		Status:           models.StatusActive,
		Features:         body.Features,
	}
	if route.RouteType == models.RouteTypeVIP {
		route.Features = models.VIPFeatures()
	}

	exists, err := h.routes.ExistsDuplicate(c.Request.Context(), route)
	if err != nil {
		logrus.WithError(err).Error("route duplicate check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Une route similaire existe déjà pour cette heure et type"})
		return
	}

	id, err := h.routes.Insert(c.Request.Context(), route)
	if err != nil {
		if db.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Une route similaire existe déjà pour cette heure et type"})
			return
		}
		logrus.WithError(err).Error("route insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	route.ID = id

	h.enqueueProjection(c, route)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Route créée avec succès",
		"route":   route,
	})
}

type updateRouteRequest struct {
	Name             *string               `json:"name"`
	DepartureCity    *string               `json:"departureCity"`
	ArrivalCity      *string               `json:"arrivalCity"`
	DepartureStation *string               `json:"departureStation"`
	ArrivalStation   *string               `json:"arrivalStation"`
	Price            *int                  `json:"price"`
	RouteType        *string               `json:"routeType"`
	DepartureTime    *string               `json:"departureTime"`
	Status           *string               `json:"status"`
	Features         *models.RouteFeatures `json:"features"`
}

// Update handles PUT /api/routes/:id. Only the owning company may modify a
// route, and only the submitted fields change.
func (h *RouteHandler) Update(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	existing, err := h.routes.FindByID(c.Request.Context(), c.Param("id"))
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route non trouvée"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("route lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if existing.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès non autorisé"})
		return
	}

	var body updateRouteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requête invalide"})
		return
	}

	fields := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	setString("name", body.Name)
	setString("departureCity", body.DepartureCity)
	setString("arrivalCity", body.ArrivalCity)
	setString("departureStation", body.DepartureStation)
	setString("arrivalStation", body.ArrivalStation)
	setString("departureTime", body.DepartureTime)
	if body.Price != nil {
		if *body.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Requête invalide"})
			return
		}
		fields["price"] = *body.Price
	}
	if body.RouteType != nil {
		if !models.ValidRouteType(*body.RouteType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Type de route invalide"})
			return
		}
		fields["routeType"] = *body.RouteType
		if *body.RouteType == models.RouteTypeVIP {
			fields["features"] = models.VIPFeatures()
		}
	}
	if body.Status != nil {
		if *body.Status != models.StatusActive && *body.Status != models.StatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Requête invalide"})
			return
		}
		fields["status"] = *body.Status
	}
	if body.Features != nil {
		if _, forced := fields["features"]; !forced {
			fields["features"] = *body.Features
		}
	}

	updated, err := h.routes.UpdateFields(c.Request.Context(), c.Param("id"), fields)
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route non trouvée"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("route update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}

	h.enqueueProjection(c, *updated)

	c.JSON(http.StatusOK, gin.H{
		"message": "Route modifiée avec succès",
		"route":   updated,
	})
}

// Delete handles DELETE /api/routes/:id, restricted to the owning company.
func (h *RouteHandler) Delete(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	existing, err := h.routes.FindByID(c.Request.Context(), c.Param("id"))
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route non trouvée"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("route lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if existing.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès non autorisé"})
		return
	}

	if err := h.routes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == db.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Route non trouvée"})
			return
		}
		logrus.WithError(err).Error("route delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route supprimée avec succès"})
}

func (h *RouteHandler) withCompanies(c *gin.Context, routes []models.Route) []routeWithCompany {
	ids := make([]primitive.ObjectID, 0, len(routes))
	seen := map[primitive.ObjectID]bool{}
	for _, r := range routes {
		if !seen[r.CompanyID] {
			seen[r.CompanyID] = true
			ids = append(ids, r.CompanyID)
		}
	}

	companies, err := h.companies.FindByIDs(c.Request.Context(), ids)
	if err != nil {
		logrus.WithError(err).Warn("company contacts unavailable for route listing")
		companies = map[primitive.ObjectID]models.Company{}
	}

	out := make([]routeWithCompany, 0, len(routes))
	for _, r := range routes {
		entry := routeWithCompany{Route: r}
		if company, ok := companies[r.CompanyID]; ok {
			contact := company.Contact()
			entry.Company = &contact
		}
		out = append(out, entry)
	}
	return out
}

// enqueueProjection refreshes the comparison projection off the request path.
func (h *RouteHandler) enqueueProjection(c *gin.Context, route models.Route) {
	if h.worker == nil {
		return
	}
	companyName := ""
	if company, err := h.companies.FindByID(c.Request.Context(), route.CompanyID.Hex()); err == nil {
		companyName = company.CompanyName
	} else {
		logrus.WithError(err).Warn("company name unavailable for projection")
	}
	h.worker.Enqueue(projection.Event{Route: route, CompanyName: companyName})
}

// actingCompany resolves the authenticated company id set by the auth
// middleware into an ObjectID, aborting the request when absent.
func actingCompany(c *gin.Context) (primitive.ObjectID, bool) {
	hexID, ok := middleware.CompanyID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentification requise"})
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Jeton invalide"})
		return primitive.NilObjectID, false
	}
	return id, true
}
