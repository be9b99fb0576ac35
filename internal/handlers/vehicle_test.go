package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/middleware"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

func vehicleEngine(h *VehicleHandler, service *auth.Service) *gin.Engine {
	r := gin.New()
	r.GET("/api/vehicles", h.List)
	r.POST("/api/vehicles", middleware.RequireCompany(service), h.Create)
	return r
}

func validVehicleBody() gin.H {
	return gin.H{
		"plateNumber": "ab-1234-ci",
		"brand":       "Mercedes",
		"model":       "Sprinter",
		"capacity":    45,
		"vehicleType": models.VehicleTypeBus,
	}
}

func TestVehicleList_RequiresCompanyID(t *testing.T) {
	h := NewVehicleHandler(new(MockVehicleCollection))
	rec := httptest.NewRecorder()
	vehicleEngine(h, newAuthService(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Identifiant de compagnie invalide", decodeBody(t, rec)["message"])
}

func TestVehicleList_ByCompany(t *testing.T) {
	companyID := primitive.NewObjectID()
	vehicles := new(MockVehicleCollection)
	vehicles.On("FindByCompany", mock.Anything, companyID).Return([]models.Vehicle{
		{PlateNumber: "AB-1234-CI", Brand: "Mercedes", CompanyID: companyID},
	}, nil)

	h := NewVehicleHandler(vehicles)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?companyId="+companyID.Hex(), nil)
	vehicleEngine(h, newAuthService(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AB-1234-CI")
}

func TestVehicleCreate_NormalizesPlate(t *testing.T) {
	service := newAuthService(t)
	companyID := primitive.NewObjectID()

	vehicles := new(MockVehicleCollection)
	vehicles.On("ExistsPlate", mock.Anything, "AB-1234-CI").Return(false, nil)
	vehicles.On("Insert", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
		return v.PlateNumber == "AB-1234-CI" &&
			v.CompanyID == companyID &&
			v.Status == models.VehicleStatusActive
	})).Return(primitive.NewObjectID(), nil)

	h := NewVehicleHandler(vehicles)
	req := jsonRequest(t, http.MethodPost, "/api/vehicles", validVehicleBody())
	req.Header.Set("Authorization", "Bearer "+companyToken(t, service, companyID))
	rec := httptest.NewRecorder()
	vehicleEngine(h, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Véhicule créé avec succès", decodeBody(t, rec)["message"])
	vehicles.AssertExpectations(t)
}

func TestVehicleCreate_DuplicatePlatePreCheck(t *testing.T) {
	service := newAuthService(t)
	vehicles := new(MockVehicleCollection)
	vehicles.On("ExistsPlate", mock.Anything, "AB-1234-CI").Return(true, nil)

	h := NewVehicleHandler(vehicles)
	req := jsonRequest(t, http.MethodPost, "/api/vehicles", validVehicleBody())
	req.Header.Set("Authorization", "Bearer "+companyToken(t, service, primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	vehicleEngine(h, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Immatriculation déjà utilisée", decodeBody(t, rec)["message"])
	vehicles.AssertNotCalled(t, "Insert")
}

func TestVehicleCreate_DuplicateIndexBackstop(t *testing.T) {
	service := newAuthService(t)
	vehicles := new(MockVehicleCollection)
	vehicles.On("ExistsPlate", mock.Anything, mock.Anything).Return(false, nil)
	vehicles.On("Insert", mock.Anything, mock.Anything).Return(primitive.NilObjectID, mongoDuplicateKeyError())

	h := NewVehicleHandler(vehicles)
	req := jsonRequest(t, http.MethodPost, "/api/vehicles", validVehicleBody())
	req.Header.Set("Authorization", "Bearer "+companyToken(t, service, primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	vehicleEngine(h, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Immatriculation déjà utilisée", decodeBody(t, rec)["message"])
}
