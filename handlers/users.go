// handlers/users.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

type createUserReq struct {
	registerReq
	OrganizationID *uuid.UUID `json:"organizationId"`
}

type updateUserReq struct {
	Name           *string    `json:"name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	Password       *string    `json:"password"`
	Role           *string    `json:"role"`
	Language       *string    `json:"language"`
	Timezone       *string    `json:"timezone"`
	OrganizationID *uuid.UUID `json:"organizationId"`
}

// GetAllUsers lists users, paginated. Admin only (route table).
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := utils.ParsePagination(r)

	var users []models.User
	if err := config.DB.
		Preload("Organization").
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar usuários")
		return
	}

	var total int64
	config.DB.Model(&models.User{}).Count(&total)

	utils.RespondList(w, "Usuários carregados", users, utils.ListMeta{Total: total, Page: page, Limit: limit})
}

// CreateUser lets an administrator provision a user directly, optionally
// with an organization affiliation. Password is optional here: USSD-only
// accounts have none.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
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
	if req.Password != "" && len(req.Password) < 8 {
		errs = append(errs, "Senha deve ter pelo menos 8 caracteres")
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		errs = append(errs, "Papel inválido")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

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

	u := models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          nilIfEmpty(req.Email),
		Phone:          nilIfEmpty(req.Phone),
		Role:           models.RoleFarmer,
		Language:       "pt",
		Timezone:       "Africa/Luanda",
		OrganizationID: req.OrganizationID,
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
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Erro ao processar senha")
			return
		}
		u.PasswordHash = string(hash)
	}

	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			utils.Error(w, http.StatusConflict, "Email ou telefone já está em uso")
		} else {
			utils.Error(w, http.StatusInternalServerError, "Erro ao criar usuário")
		}
		return
	}

	utils.Respond(w, http.StatusCreated, "Usuário criado com sucesso", u)
}

// GetUserByID returns a single user with organization and farm summaries.
// Admin only (route table).
func GetUserByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := config.DB.
		Preload("Organization").
		Preload("Farms").
		First(&user, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}
	utils.Respond(w, http.StatusOK, "Usuário carregado", user)
}

// UpdateUser mutates a user record. Allowed to the user themself, a
// same-organization NGO/GOVERNMENT member, or an administrator.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	updateUserByID(w, r, mux.Vars(r)["id"])
}

// DeleteUser removes a user. Same actor set as UpdateUser.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleteUserByID(w, r, mux.Vars(r)["id"])
}

// Me returns the caller's own record.
func Me(w http.ResponseWriter, r *http.Request) {
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

// UpdateMe mutates the caller's own record.
func UpdateMe(w http.ResponseWriter, r *http.Request) {
	updateUserByID(w, r, middleware.GetUserID(r))
}

// DeleteMe removes the caller's own record.
func DeleteMe(w http.ResponseWriter, r *http.Request) {
	deleteUserByID(w, r, middleware.GetUserID(r))
}

func updateUserByID(w http.ResponseWriter, r *http.Request, id string) {
	var target models.User
	if err := config.DB.First(&target, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}

	caller := middleware.GetUser(r)
	if !middleware.CallerCanAct(caller, target.ID, target.OrganizationID) {
		utils.Error(w, http.StatusForbidden, "Acesso negado para editar este usuário")
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if req.Email != nil && *req.Email != strOrEmpty(target.Email) {
		var count int64
		config.DB.Model(&models.User{}).Where("email = ? AND id <> ?", *req.Email, target.ID).Count(&count)
		if count > 0 {
			utils.Error(w, http.StatusConflict, "Email já está em uso")
			return
		}
		target.Email = nilIfEmpty(*req.Email)
	}
	if req.Phone != nil && *req.Phone != strOrEmpty(target.Phone) {
		var count int64
		config.DB.Model(&models.User{}).Where("phone = ? AND id <> ?", *req.Phone, target.ID).Count(&count)
		if count > 0 {
			utils.Error(w, http.StatusConflict, "Telefone já está em uso")
			return
		}
		target.Phone = nilIfEmpty(*req.Phone)
	}
	if req.Name != nil {
		if len(strings.TrimSpace(*req.Name)) < 2 {
			utils.ValidationError(w, []string{"Nome deve ter pelo menos 2 caracteres"})
			return
		}
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			utils.ValidationError(w, []string{"Senha deve ter pelo menos 8 caracteres"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Erro ao processar senha")
			return
		}
		target.PasswordHash = string(hash)
	}
	if req.Role != nil {
		// Only administrators may change roles.
		if caller.Role != models.RoleAdmin {
			utils.Error(w, http.StatusForbidden, "Apenas administradores podem alterar papéis")
			return
		}
		if !models.ValidRole(*req.Role) {
			utils.ValidationError(w, []string{"Papel inválido"})
			return
		}
		target.Role = *req.Role
	}
	if req.Language != nil {
		target.Language = *req.Language
	}
	if req.Timezone != nil {
		target.Timezone = *req.Timezone
	}
	if req.OrganizationID != nil {
		target.OrganizationID = req.OrganizationID
	}

	if err := config.DB.Save(&target).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar usuário")
		return
	}
	utils.Respond(w, http.StatusOK, "Usuário atualizado com sucesso", target)
}

func deleteUserByID(w http.ResponseWriter, r *http.Request, id string) {
	var target models.User
	if err := config.DB.First(&target, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}

	caller := middleware.GetUser(r)
	if !middleware.CallerCanAct(caller, target.ID, target.OrganizationID) {
		utils.Error(w, http.StatusForbidden, "Acesso negado para remover este usuário")
		return
	}

	if err := config.DB.Delete(&target).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao remover usuário")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
