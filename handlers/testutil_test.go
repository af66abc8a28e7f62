package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
)

// setupTestDB gives each test an isolated in-memory database and points the
// package-level connection at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Farm{},
		&models.Field{},
		&models.CropType{},
		&models.Planting{},
		&models.Recommendation{},
		&models.WeatherObservation{},
		&models.SatelliteObservation{},
		&models.USSDLog{},
	))

	config.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string, orgID *uuid.UUID) models.User {
	t.Helper()

	email := uuid.New().String() + "@teste.ao"
	user := models.User{
		Name:           "Utilizador Teste",
		Email:          &email,
		Role:           role,
		OrganizationID: orgID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestFarm(t *testing.T, db *gorm.DB, owner models.User) models.Farm {
	t.Helper()

	farm := models.Farm{
		Name:           "Fazenda Teste",
		CentroidLat:    -8.83,
		CentroidLon:    13.23,
		AreaHa:         12.5,
		SoilType:       "argiloso",
		Province:       "Luanda",
		Municipality:   "Viana",
		OwnerID:        owner.ID,
		OrganizationID: owner.OrganizationID,
	}
	require.NoError(t, db.Create(&farm).Error)
	return farm
}

// testRouter mounts the handler under the authenticated API middleware so
// tests exercise the same token and mux.Vars plumbing as production.
func testRouter(method, path string, h http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()
	r.Handle(path, middleware.JWTMiddleware(h)).Methods(method)
	return r
}

// doAuthed performs a request as the given user against a single-route
// router.
func doAuthed(t *testing.T, router *mux.Router, user models.User, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	token, err := middleware.GenerateToken(user.ID.String(), user.Role, email, "")
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope unpacks the standard response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
