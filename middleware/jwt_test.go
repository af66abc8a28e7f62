package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"farmnav.ao/api/models"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	userID := uuid.New().String()

	token, err := GenerateToken(userID, models.RoleFarmer, "a@b.ao", "")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	var got *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r)
	}))

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil {
		t.Fatal("claims missing from request context")
	}
	if got.UserID != userID {
		t.Errorf("UserID = %q, expected %q", got.UserID, userID)
	}
	if got.Role != models.RoleFarmer {
		t.Errorf("Role = %q, expected %q", got.Role, models.RoleFarmer)
	}
}

func TestJWTMiddlewareRejections(t *testing.T) {
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/farms", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	protected := RequireRole([]string{models.RoleAdmin, models.RoleTechnician},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", models.RoleAdmin, http.StatusNoContent},
		{"technician allowed", models.RoleTechnician, http.StatusNoContent},
		{"farmer denied", models.RoleFarmer, http.StatusForbidden},
		{"unauthenticated denied", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(uuid.New().String(), tt.role, "", "")
			if err != nil {
				t.Fatalf("GenerateToken failed: %v", err)
			}

			var handler http.Handler = protected
			req := httptest.NewRequest("POST", "/api/crop-types", nil)
			if tt.role != "" {
				handler = JWTMiddleware(protected)
				req.Header.Set("Authorization", "Bearer "+token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.expected {
				t.Errorf("role %q: expected %d, got %d", tt.role, tt.expected, rec.Code)
			}
		})
	}
}
