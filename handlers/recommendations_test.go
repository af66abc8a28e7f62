package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmnav.ao/api/models"
)

func TestCreateRecommendation(t *testing.T) {
	db := setupTestDB(t)
	tech := createTestUser(t, db, models.RoleTechnician, nil)
	farmer := createTestUser(t, db, models.RoleFarmer, nil)
	farm := createTestFarm(t, db, farmer)

	router := testRouter("POST", "/api/recommendations", CreateRecommendation)

	rec := doAuthed(t, router, tech, "POST", "/api/recommendations", map[string]interface{}{
		"farmId": farm.ID.String(),
		"title":  "Adubação de cobertura",
		"body":   "Aplicar ureia após a primeira sacha",
		"score":  0.75,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored models.Recommendation
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, tech.ID.String(), stored.CreatedBy)
	assert.Equal(t, "GENERAL", stored.Type, "type defaults to GENERAL")

	t.Run("score out of range", func(t *testing.T) {
		rec := doAuthed(t, router, tech, "POST", "/api/recommendations", map[string]interface{}{
			"title": "Inválida",
			"score": 1.5,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown farm", func(t *testing.T) {
		rec := doAuthed(t, router, tech, "POST", "/api/recommendations", map[string]interface{}{
			"farmId": uuid.New().String(),
			"title":  "Órfã",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAllRecommendationsFilteredByFarm(t *testing.T) {
	db := setupTestDB(t)
	farmer := createTestUser(t, db, models.RoleFarmer, nil)
	farmA := createTestFarm(t, db, farmer)
	farmB := createTestFarm(t, db, farmer)

	for _, farmID := range []uuid.UUID{farmA.ID, farmA.ID, farmB.ID} {
		id := farmID
		require.NoError(t, db.Create(&models.Recommendation{
			FarmID: &id, Title: "Rec", CreatedBy: farmer.ID.String(),
		}).Error)
	}

	router := testRouter("GET", "/api/recommendations", GetAllRecommendations)
	rec := doAuthed(t, router, farmer, "GET", "/api/recommendations?farmId="+farmA.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	recs := env["data"].([]interface{})
	assert.Len(t, recs, 2)
}

func TestMarkRecommendationActioned(t *testing.T) {
	db := setupTestDB(t)
	farmer := createTestUser(t, db, models.RoleFarmer, nil)

	row := models.Recommendation{Title: "Regar ao amanhecer", CreatedBy: "python_service"}
	require.NoError(t, db.Create(&row).Error)

	router := testRouter("PATCH", "/api/recommendations/{id}/action", MarkRecommendationActioned)
	rec := doAuthed(t, router, farmer, "PATCH", "/api/recommendations/"+row.ID.String()+"/action", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored models.Recommendation
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	assert.True(t, stored.Actioned)
}
