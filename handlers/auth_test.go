package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmnav.ao/api/models"
)

func postJSONReq(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)

	rec := postJSONReq(t, Register, "/api/auth/register", map[string]string{
		"name":     "Maria dos Santos",
		"email":    "maria@exemplo.ao",
		"password": "senha-segura-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env["success"])
	data := env["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.EqualValues(t, 604800, data["expires_in"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, models.RoleFarmer, user["role"], "role should default to FARMER")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "maria@exemplo.ao").First(&stored).Error)
	assert.Equal(t, "pt", stored.Language)
	assert.Equal(t, "Africa/Luanda", stored.Timezone)
	assert.NotEqual(t, "senha-segura-123", stored.PasswordHash, "password must be hashed")
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short name", map[string]string{"name": "A", "email": "a@b.ao", "password": "senha-segura"}},
		{"no contact", map[string]string{"name": "Maria", "password": "senha-segura"}},
		{"short password", map[string]string{"name": "Maria", "email": "a@b.ao", "password": "curta"}},
		{"unknown role", map[string]string{"name": "Maria", "email": "a@b.ao", "password": "senha-segura", "role": "SUPERUSER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSONReq(t, Register, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	body := map[string]string{
		"name":     "Maria dos Santos",
		"email":    "maria@exemplo.ao",
		"password": "senha-segura-123",
	}
	rec := postJSONReq(t, Register, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSONReq(t, Register, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Email já está em uso", env["message"])
}

func TestLogin(t *testing.T) {
	setupTestDB(t)

	rec := postJSONReq(t, Register, "/api/auth/register", map[string]string{
		"name":     "João Baptista",
		"email":    "joao@exemplo.ao",
		"phone":    "+244923000111",
		"password": "senha-segura-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("by email", func(t *testing.T) {
		rec := postJSONReq(t, Login, "/api/auth/login", map[string]string{
			"email":    "joao@exemplo.ao",
			"password": "senha-segura-123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("by phone fallback", func(t *testing.T) {
		rec := postJSONReq(t, Login, "/api/auth/login", map[string]string{
			"phone":    "+244923000111",
			"password": "senha-segura-123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSONReq(t, Login, "/api/auth/login", map[string]string{
			"email":    "joao@exemplo.ao",
			"password": "senha-errada",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Credenciais inválidas", env["message"])
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := postJSONReq(t, Login, "/api/auth/login", map[string]string{
			"email":    "ninguem@exemplo.ao",
			"password": "senha-segura-123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProfile(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleFarmer, nil)

	router := testRouter("GET", "/api/auth/profile", Profile)
	rec := doAuthed(t, router, user, "GET", "/api/auth/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), data["id"])
}
