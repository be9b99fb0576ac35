package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/models"
	"github.com/adjamedev/transport-marketplace/internal/seo"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockCompanyCollection struct {
	mock.Mock
}

func (m *MockCompanyCollection) Insert(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockCompanyCollection) FindByEmail(ctx context.Context, email string) (*models.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyCollection) ExistsEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	args := m.Called(ctx, email, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyCollection) FindByID(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyCollection) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Company, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.Company), args.Error(1)
}

type MockRouteCollection struct {
	mock.Mock
}

func (m *MockRouteCollection) Insert(ctx context.Context, route models.Route) (primitive.ObjectID, error) {
	args := m.Called(ctx, route)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockRouteCollection) FindAll(ctx context.Context) ([]models.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Route, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindByID(ctx context.Context, id string) (*models.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockRouteCollection) ExistsDuplicate(ctx context.Context, route models.Route) (bool, error) {
	args := m.Called(ctx, route)
	return args.Bool(0), args.Error(1)
}

func (m *MockRouteCollection) FindActiveByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error) {
	args := m.Called(ctx, departureCity, arrivalCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) UpdateFields(ctx context.Context, id string, fields bson.M) (*models.Route, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockRouteCollection) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEnhancedRouteCollection struct {
	mock.Mock
}

func (m *MockEnhancedRouteCollection) Insert(ctx context.Context, route models.EnhancedRoute) (primitive.ObjectID, error) {
	args := m.Called(ctx, route)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockEnhancedRouteCollection) FindActiveByKey(ctx context.Context, routeKey string) ([]models.EnhancedRoute, error) {
	args := m.Called(ctx, routeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EnhancedRoute), args.Error(1)
}

func (m *MockEnhancedRouteCollection) Upsert(ctx context.Context, route models.EnhancedRoute) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) Insert(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockVehicleCollection) FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Vehicle, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) ExistsPlate(ctx context.Context, plateNumber string) (bool, error) {
	args := m.Called(ctx, plateNumber)
	return args.Bool(0), args.Error(1)
}

type MockScheduleCollection struct {
	mock.Mock
}

func (m *MockScheduleCollection) Insert(ctx context.Context, schedule models.Schedule) (primitive.ObjectID, error) {
	args := m.Called(ctx, schedule)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockScheduleCollection) Find(ctx context.Context, companyID primitive.ObjectID, routeID *primitive.ObjectID) ([]models.Schedule, error) {
	args := m.Called(ctx, companyID, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockScheduleCollection) ExistsConflict(ctx context.Context, routeID primitive.ObjectID, departureTime string, days []string) (bool, error) {
	args := m.Called(ctx, routeID, departureTime, days)
	return args.Bool(0), args.Error(1)
}

type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateRouteContent(ctx context.Context, departure, arrival string, routes []seo.RouteInfo) (*seo.Content, error) {
	args := m.Called(ctx, departure, arrival, routes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seo.Content), args.Error(1)
}

// test helpers

func mongoDuplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	service, err := auth.NewService()
	require.NoError(t, err)
	return service
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func companyToken(t *testing.T, service *auth.Service, id primitive.ObjectID) string {
	t.Helper()
	token, err := service.GenerateCompanyToken(&models.Company{ID: id, Email: "ops@utb.ci"})
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
