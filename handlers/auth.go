// handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

const bcryptCost = 12

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authUser struct {
	ID    string  `json:"id"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Name  string  `json:"name"`
	Role  string  `json:"role"`
}

type authResp struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        authUser `json:"user"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func buildAuthResp(u models.User) (authResp, error) {
	token, err := middleware.GenerateToken(u.ID.String(), u.Role, strOrEmpty(u.Email), strOrEmpty(u.Phone))
	if err != nil {
		return authResp{}, err
	}
	return authResp{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(middleware.TokenValidity.Seconds()),
		User: authUser{
			ID:    u.ID.String(),
			Email: u.Email,
			Phone: u.Phone,
			Name:  u.Name,
			Role:  u.Role,
		},
	}, nil
}

// Register creates a user and logs them in immediately.
//
//	@Summary	Registrar novo usuário
//	@Router		/api/auth/register [post]
func Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if len(strings.TrimSpace(req.Name)) < 2 {
		errs = append(errs, "Nome deve ter pelo menos 2 caracteres")
	}
	if nilIfEmpty(req.Email) == nil && nilIfEmpty(req.Phone) == nil {
		errs = append(errs, "Informe email ou telefone")
	}
	if len(req.Password) < 8 {
		errs = append(errs, "Senha deve ter pelo menos 8 caracteres")
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		errs = append(errs, "Papel inválido")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	// Existence pre-checks. The window between check and create is not
	// transactionally closed; the unique indexes are the backstop.
	if email := nilIfEmpty(req.Email); email != nil {
		var count int64
		config.DB.Model(&models.User{}).Where("email = ?", *email).Count(&count)
		if count > 0 {
			utils.Error(w, http.StatusConflict, "Email já está em uso")
			return
		}
	}
	if phone := nilIfEmpty(req.Phone); phone != nil {
		var count int64
		config.DB.Model(&models.User{}).Where("phone = ?", *phone).Count(&count)
		if count > 0 {
			utils.Error(w, http.StatusConflict, "Telefone já está em uso")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao processar senha")
		return
	}

	u := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        nilIfEmpty(req.Email),
		Phone:        nilIfEmpty(req.Phone),
		PasswordHash: string(hash),
		Role:         models.RoleFarmer,
		Language:     "pt",
		Timezone:     "Africa/Luanda",
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Language != "" {
		u.Language = req.Language
	}
	if req.Timezone != "" {
		u.Timezone = req.Timezone
	}

	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			utils.Error(w, http.StatusConflict, "Email ou telefone já está em uso")
		} else {
			utils.Error(w, http.StatusInternalServerError, "Erro ao criar usuário")
		}
		return
	}

	resp, err := buildAuthResp(u)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}
	utils.Respond(w, http.StatusCreated, "Usuário registrado com sucesso", resp)
}

// Login authenticates by email, falling back to phone.
//
//	@Summary	Autenticar usuário
//	@Router		/api/auth/login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var u models.User
	found := false
	if email := nilIfEmpty(req.Email); email != nil {
		if err := config.DB.Where("email = ?", *email).First(&u).Error; err == nil {
			found = true
		}
	}
	if !found {
		if phone := nilIfEmpty(req.Phone); phone != nil {
			if err := config.DB.Where("phone = ?", *phone).First(&u).Error; err == nil {
				found = true
			}
		}
	}
	if !found {
		utils.Error(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	resp, err := buildAuthResp(u)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}
	utils.Respond(w, http.StatusOK, "Login efetuado com sucesso", resp)
}

// Profile returns the authenticated caller's stored record.
//
//	@Summary	Perfil do usuário autenticado
//	@Router		/api/auth/profile [get]
func Profile(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := config.DB.
		Preload("Organization").
		Preload("Farms").
		First(&user, "id = ?", middleware.GetUserID(r)).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}
	utils.Respond(w, http.StatusOK, "Perfil carregado", user)
}
