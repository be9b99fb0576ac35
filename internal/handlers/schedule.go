package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

// ScheduleHandler serves the recurring departures attached to routes.
type ScheduleHandler struct {
	schedules db.ScheduleCollection
	routes    db.RouteCollection
}

func NewScheduleHandler(schedules db.ScheduleCollection, routes db.RouteCollection) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, routes: routes}
}

// List handles GET /api/schedules?companyId=...&routeId=...
func (h *ScheduleHandler) List(c *gin.Context) {
	companyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Query("companyId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de compagnie invalide"})
		return
	}

	var routeID *primitive.ObjectID
	if raw := strings.TrimSpace(c.Query("routeId")); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de route invalide"})
			return
		}
		routeID = &id
	}

	schedules, err := h.schedules.Find(c.Request.Context(), companyID, routeID)
	if err != nil {
		logrus.WithError(err).Error("schedule listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

type createScheduleRequest struct {
	RouteID        string   `json:"routeId"`
	DepartureTime  string   `json:"departureTime"`
	ArrivalTime    string   `json:"arrivalTime"`
	DaysOfWeek     []string `json:"daysOfWeek"`
	VehicleID      string   `json:"vehicleId"`
	AvailableSeats int      `json:"availableSeats"`
}

// Create handles POST /api/schedules. Rejects a second departure of the same
// route at the same time on any shared weekday.
func (h *ScheduleHandler) Create(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	var body createScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	body.DepartureTime = strings.TrimSpace(body.DepartureTime)
	if body.RouteID == "" || body.DepartureTime == "" || body.AvailableSeats <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}
	if !models.ValidDays(body.DaysOfWeek) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Jours de la semaine invalides"})
		return
	}

	route, err := h.routes.FindByID(c.Request.Context(), body.RouteID)
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route non trouvée"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("route lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if route.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès non autorisé"})
		return
	}

	conflict, err := h.schedules.ExistsConflict(c.Request.Context(), route.ID, body.DepartureTime, body.DaysOfWeek)
	if err != nil {
		logrus.WithError(err).Error("schedule conflict check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if conflict {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Un horaire existe déjà pour cette route à cette heure"})
		return
	}

	schedule := models.Schedule{
		RouteID:        route.ID,
		CompanyID:      companyID,
		DepartureTime:  body.DepartureTime,
		ArrivalTime:    strings.TrimSpace(body.ArrivalTime),
		DaysOfWeek:     body.DaysOfWeek,
		AvailableSeats: body.AvailableSeats,
		Status:         models.ScheduleStatusActive,
	}
	if body.VehicleID != "" {
		vehicleID, err := primitive.ObjectIDFromHex(body.VehicleID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de véhicule invalide"})
			return
		}
		schedule.VehicleID = vehicleID
	}

	id, err := h.schedules.Insert(c.Request.Context(), schedule)
	if err != nil {
		logrus.WithError(err).Error("schedule insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	schedule.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Horaire créé avec succès",
		"schedule": schedule,
	})
}
