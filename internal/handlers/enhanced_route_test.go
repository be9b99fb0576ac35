package handlers

import (
	"encoding/json"
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

func enhancedEngine(h *EnhancedRouteHandler, service *auth.Service) *gin.Engine {
	r := gin.New()
	r.GET("/api/enhanced-routes/comparison/:departure/:arrival", h.Comparison)
	r.POST("/api/enhanced-routes", middleware.RequireCompany(service), h.Create)
	return r
}

type comparisonCard struct {
	RouteKey    string            `json:"routeKey"`
	CompanyName string            `json:"companyName"`
	PriceRange  models.PriceRange `json:"priceRange"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"reviewCount"`
	Company     *struct {
		CompanyName string `json:"companyName"`
		Phone       string `json:"phone"`
	} `json:"company"`
}

func decodeComparison(t *testing.T, rec *httptest.ResponseRecorder) []comparisonCard {
	t.Helper()
	var got []comparisonCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestComparison_UsesProjectionWhenPresent(t *testing.T) {
	companyID := primitive.NewObjectID()
	enhanced := new(MockEnhancedRouteCollection)
	enhanced.On("FindActiveByKey", mock.Anything, "abidjan-bouaké").Return([]models.EnhancedRoute{
		{RouteKey: "abidjan-bouaké", CompanyID: companyID, CompanyName: "UTB Transport",
			PriceRange: models.PriceRange{Min: 6000, Max: 8000}},
	}, nil)
	companies := new(MockCompanyCollection)
	companies.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Company{
		companyID: {ID: companyID, CompanyName: "UTB Transport", Phone: "+2250102030405"},
	}, nil)

	routes := new(MockRouteCollection)
	h := NewEnhancedRouteHandler(enhanced, routes, companies)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/enhanced-routes/comparison/Abidjan/Bouaké", nil)
	enhancedEngine(h, newAuthService(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeComparison(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "abidjan-bouaké", got[0].RouteKey)
	require.NotNil(t, got[0].Company)
	assert.Equal(t, "+2250102030405", got[0].Company.Phone)
	// the projection answered, no fallback query
	routes.AssertNotCalled(t, "FindActiveByCities")
}

func TestComparison_FallsBackToRoutes(t *testing.T) {
	companyID := primitive.NewObjectID()
	enhanced := new(MockEnhancedRouteCollection)
	enhanced.On("FindActiveByKey", mock.Anything, "abidjan-bouaké").Return([]models.EnhancedRoute{}, nil)

	routes := new(MockRouteCollection)
	routes.On("FindActiveByCities", mock.Anything, "Abidjan", "Bouaké").Return([]models.Route{
		{ID: primitive.NewObjectID(), DepartureCity: "Abidjan", ArrivalCity: "Bouaké",
			CompanyID: companyID, Price: 8000, Status: models.StatusActive},
		{ID: primitive.NewObjectID(), DepartureCity: "Abidjan", ArrivalCity: "Bouaké",
			CompanyID: companyID, Price: 6000, Status: models.StatusActive},
	}, nil)
	companies := new(MockCompanyCollection)
	companies.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Company{
		companyID: {ID: companyID, CompanyName: "UTB Transport"},
	}, nil)

	h := NewEnhancedRouteHandler(enhanced, routes, companies)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/enhanced-routes/comparison/Abidjan/Bouaké", nil)
	enhancedEngine(h, newAuthService(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeComparison(t, rec)
	require.Len(t, got, 2)
	// cheapest first
	assert.Equal(t, 6000, got[0].PriceRange.Min)
	assert.Equal(t, 8000, got[1].PriceRange.Min)
	// company name filled from the contact lookup
	assert.Equal(t, "UTB Transport", got[0].CompanyName)
	// placeholder rating stays in its display band
	assert.GreaterOrEqual(t, got[0].Rating, 4.0)
	assert.Less(t, got[0].Rating, 5.0)
	assert.GreaterOrEqual(t, got[0].ReviewCount, 10)
}

func TestComparison_FallbackIsDeterministic(t *testing.T) {
	companyID := primitive.NewObjectID()
	enhanced := new(MockEnhancedRouteCollection)
	enhanced.On("FindActiveByKey", mock.Anything, mock.Anything).Return([]models.EnhancedRoute{}, nil)
	routes := new(MockRouteCollection)
	routes.On("FindActiveByCities", mock.Anything, "Abidjan", "Korhogo").Return([]models.Route{
		{ID: primitive.NewObjectID(), DepartureCity: "Abidjan", ArrivalCity: "Korhogo",
			CompanyID: companyID, Price: 9000, Status: models.StatusActive},
	}, nil)
	companies := new(MockCompanyCollection)
	companies.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Company{}, nil)

	h := NewEnhancedRouteHandler(enhanced, routes, companies)
	engine := enhancedEngine(h, newAuthService(t))

	ratings := map[float64]bool{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/enhanced-routes/comparison/Abidjan/Korhogo", nil)
		engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeComparison(t, rec)
		require.Len(t, got, 1)
		ratings[got[0].Rating] = true
	}
	assert.Len(t, ratings, 1)
}

func TestComparison_EmptyIsJSONArray(t *testing.T) {
	enhanced := new(MockEnhancedRouteCollection)
	enhanced.On("FindActiveByKey", mock.Anything, mock.Anything).Return([]models.EnhancedRoute{}, nil)
	routes := new(MockRouteCollection)
	routes.On("FindActiveByCities", mock.Anything, "Abidjan", "San-Pédro").Return([]models.Route{}, nil)
	companies := new(MockCompanyCollection)
	companies.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Company{}, nil)

	h := NewEnhancedRouteHandler(enhanced, routes, companies)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/enhanced-routes/comparison/Abidjan/San-Pédro", nil)
	enhancedEngine(h, newAuthService(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestEnhancedCreate_DerivesRouteKey(t *testing.T) {
	service := newAuthService(t)
	companyID := primitive.NewObjectID()

	enhanced := new(MockEnhancedRouteCollection)
	enhanced.On("Insert", mock.Anything, mock.MatchedBy(func(r models.EnhancedRoute) bool {
		return r.RouteKey == "abidjan-yamoussoukro" &&
			r.CompanyID == companyID &&
			r.Status == models.StatusActive
	})).Return(primitive.NewObjectID(), nil)
	companies := new(MockCompanyCollection)
	companies.On("FindByID", mock.Anything, companyID.Hex()).
		Return(&models.Company{ID: companyID, CompanyName: "UTB Transport"}, nil)

	h := NewEnhancedRouteHandler(enhanced, new(MockRouteCollection), companies)
	req := jsonRequest(t, http.MethodPost, "/api/enhanced-routes", gin.H{
		"departureCity": "Abidjan",
		"arrivalCity":   "Yamoussoukro",
		"routeKey":      "forged-key", // ignored, derived server-side
		"priceRange":    gin.H{"min": 5000, "max": 7000},
		"busType":       models.BusTypeVIP,
	})
	req.Header.Set("Authorization", "Bearer "+companyToken(t, service, companyID))
	rec := httptest.NewRecorder()
	enhancedEngine(h, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Route enrichie créée avec succès", decodeBody(t, rec)["message"])
	enhanced.AssertExpectations(t)
}

func TestEnhancedCreate_RequiresToken(t *testing.T) {
	h := NewEnhancedRouteHandler(new(MockEnhancedRouteCollection), new(MockRouteCollection), new(MockCompanyCollection))
	req := jsonRequest(t, http.MethodPost, "/api/enhanced-routes", gin.H{"departureCity": "Abidjan"})
	rec := httptest.NewRecorder()
	enhancedEngine(h, newAuthService(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
