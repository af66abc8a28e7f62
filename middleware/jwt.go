// middleware/jwt.go
package middleware

import (
	"context"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"farmnav.ao/api/config"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

// Grab your secret from env (or config)
var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// TokenValidity is how long an issued session token lives.
const TokenValidity = 7 * 24 * time.Hour

// Claims are the custom payload in the session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	userClaimsKey ctxKey = iota
)

// GenerateToken creates a signed JWT valid for 7 days.
func GenerateToken(userID, role, email, phone string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Phone:  phone,
		Role:   role,

		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// JWTMiddleware validates the token and stashes the Claims in ctx. Any
// failure short-circuits the request with 401.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			utils.Error(w, http.StatusUnauthorized, "Token de autenticação ausente")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Error(w, http.StatusUnauthorized, "Cabeçalho de autenticação inválido")
			return
		}

		tokenStr := parts[1]
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			utils.Error(w, http.StatusUnauthorized, "Token inválido ou expirado")
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Token inválido ou expirado")
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps a handler with a role allow-list. Routes without a
// wrapper accept any authenticated caller.
func RequireRole(roles []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := GetRole(r)
		if slices.Contains(roles, role) {
			next.ServeHTTP(w, r)
			return
		}
		utils.Error(w, http.StatusForbidden, "Acesso negado: permissões insuficientes")
	})
}

// GetClaims pulls the *Claims out of the request context (or nil).
func GetClaims(r *http.Request) *Claims {
	if c, ok := r.Context().Value(userClaimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func GetUserID(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.UserID
	}
	return ""
}

func GetRole(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Role
	}
	return ""
}

// GetUser loads the full user row for the authenticated caller, including
// the organization affiliation the ownership policy needs. Falls back to a
// minimal user built from claims if the row has vanished.
func GetUser(r *http.Request) models.User {
	c := GetClaims(r)
	if c == nil {
		return models.User{}
	}

	var user models.User
	if err := config.DB.
		Preload("Organization").
		First(&user, "id = ?", c.UserID).Error; err == nil {
		return user
	}

	user = models.User{Role: c.Role}
	if id, err := uuid.Parse(c.UserID); err == nil {
		user.ID = id
	}
	if c.Email != "" {
		user.Email = &c.Email
	}
	if c.Phone != "" {
		user.Phone = &c.Phone
	}
	return user
}
