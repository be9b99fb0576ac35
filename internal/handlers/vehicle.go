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

// VehicleHandler serves the fleet registry of the companies.
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List handles GET /api/vehicles?companyId=...
func (h *VehicleHandler) List(c *gin.Context) {
	companyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Query("companyId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de compagnie invalide"})
		return
	}

	vehicles, err := h.vehicles.FindByCompany(c.Request.Context(), companyID)
	if err != nil {
		logrus.WithError(err).Error("vehicle listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

type createVehicleRequest struct {
	PlateNumber string `json:"plateNumber"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
	Year        int    `json:"year"`
	Color       string `json:"color"`
}

// Create handles POST /api/vehicles. The owning company comes from the token.
func (h *VehicleHandler) Create(c *gin.Context) {
	companyID, ok := actingCompany(c)
	if !ok {
		return
	}

	var body createVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	body.PlateNumber = models.NormalizePlate(body.PlateNumber)
	if body.PlateNumber == "" || strings.TrimSpace(body.Brand) == "" || body.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}
	if body.VehicleType == "" {
		body.VehicleType = models.VehicleTypeBus
	}
	if !models.ValidVehicleType(body.VehicleType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type de véhicule invalide"})
		return
	}
	if body.Year != 0 && (body.Year < models.MinVehicleYear || body.Year > models.MaxVehicleYear) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Année du véhicule invalide"})
		return
	}

	exists, err := h.vehicles.ExistsPlate(c.Request.Context(), body.PlateNumber)
	if err != nil {
		logrus.WithError(err).Error("plate uniqueness check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Immatriculation déjà utilisée"})
		return
	}

	vehicle := models.Vehicle{
		PlateNumber: body.PlateNumber,
		Brand:       strings.TrimSpace(body.Brand),
		Model:       strings.TrimSpace(body.Model),
		Capacity:    body.Capacity,
		VehicleType: body.VehicleType,
		Year:        body.Year,
		Color:       strings.TrimSpace(body.Color),
		CompanyID:   companyID,
		Status:      models.VehicleStatusActive,
	}

	id, err := h.vehicles.Insert(c.Request.Context(), vehicle)
	if err != nil {
		if db.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Immatriculation déjà utilisée"})
			return
		}
		logrus.WithError(err).Error("vehicle insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}
	vehicle.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "Véhicule créé avec succès",
		"vehicle": vehicle,
	})
}
