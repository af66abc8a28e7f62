package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmnav.ao/api/models"
)

func TestUpdateMe(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)

	router := testRouter("PATCH", "/api/users/me", UpdateMe)
	rec := doAuthed(t, router, user, "PATCH", "/api/users/me", map[string]interface{}{
		"name":     "Nome Atualizado",
		"language": "umb",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Nome Atualizado", stored.Name)
	assert.Equal(t, "umb", stored.Language)
}

func TestUpdateUserRoleChangeRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)
	admin := createTestUser(t, db, models.RoleAdmin, nil)

	router := testRouter("PATCH", "/api/users/{id}", UpdateUser)
	target := "/api/users/" + user.ID.String()

	t.Run("self promotion denied", func(t *testing.T) {
		rec := doAuthed(t, router, user, "PATCH", target, map[string]interface{}{
			"role": models.RoleAdmin,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Apenas administradores podem alterar papéis", env["message"])
	})

	t.Run("admin may promote", func(t *testing.T) {
		rec := doAuthed(t, router, admin, "PATCH", target, map[string]interface{}{
			"role": models.RoleTechnician,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, models.RoleTechnician, stored.Role)
	})
}

func TestUpdateUserDeniedForStranger(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)
	stranger := createTestUser(t, db, models.RoleFarmer, nil)

	router := testRouter("PATCH", "/api/users/{id}", UpdateUser)
	rec := doAuthed(t, router, stranger, "PATCH", "/api/users/"+user.ID.String(), map[string]interface{}{
		"name": "Hackeado",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)
	other := createTestUser(t, db, models.RoleFarmer, nil)

	router := testRouter("PATCH", "/api/users/me", UpdateMe)
	rec := doAuthed(t, router, user, "PATCH", "/api/users/me", map[string]interface{}{
		"email": *other.Email,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteMe(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)

	router := testRouter("DELETE", "/api/users/me", DeleteMe)
	rec := doAuthed(t, router, user, "DELETE", "/api/users/me", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateUserByAdmin(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, models.RoleAdmin, nil)

	org := models.Organization{Name: "Ministério da Agricultura"}
	require.NoError(t, db.Create(&org).Error)

	router := testRouter("POST", "/api/users", CreateUser)
	rec := doAuthed(t, router, admin, "POST", "/api/users", map[string]interface{}{
		"name":           "Agente USSD",
		"phone":          "+244923999888",
		"role":           models.RoleTechnician,
		"organizationId": org.ID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored models.User
	require.NoError(t, db.Where("phone = ?", "+244923999888").First(&stored).Error)
	assert.Equal(t, models.RoleTechnician, stored.Role)
	assert.Empty(t, stored.PasswordHash, "USSD-only accounts may have no password")
	require.NotNil(t, stored.OrganizationID)
	assert.Equal(t, org.ID, *stored.OrganizationID)
}

func TestGetAllUsersPagination(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, models.RoleAdmin, nil)
	for i := 0; i < 12; i++ {
		createTestUser(t, db, models.RoleFarmer, nil)
	}

	router := testRouter("GET", "/api/users", GetAllUsers)
	rec := doAuthed(t, router, admin, "GET", "/api/users?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	meta := env["meta"].(map[string]interface{})
	assert.EqualValues(t, 13, meta["total"])
	assert.EqualValues(t, 2, meta["page"])
	users := env["data"].([]interface{})
	assert.Len(t, users, 3)
}
