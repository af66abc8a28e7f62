// handlers/organizations.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"farmnav.ao/api/config"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

type organizationReq struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Country      string `json:"country"`
	ContactEmail string `json:"contactEmail"`
}

type organizationCounts struct {
	Users int64 `json:"users"`
	Farms int64 `json:"farms"`
}

func countOrgDependents(orgID interface{}) organizationCounts {
	var counts organizationCounts
	config.DB.Model(&models.User{}).Where("organization_id = ?", orgID).Count(&counts.Users)
	config.DB.Model(&models.Farm{}).Where("organization_id = ?", orgID).Count(&counts.Farms)
	return counts
}

// CreateOrganization — roles restricted in the route table.
func CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		utils.ValidationError(w, []string{"Nome deve ter pelo menos 2 caracteres"})
		return
	}

	org := models.Organization{
		Name:         strings.TrimSpace(req.Name),
		Type:         req.Type,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
	}
	if err := config.DB.Create(&org).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao criar organização")
		return
	}
	utils.Respond(w, http.StatusCreated, "Organização criada com sucesso", org)
}

// GetAllOrganizations lists organizations by name with dependent counts.
func GetAllOrganizations(w http.ResponseWriter, r *http.Request) {
	var orgs []models.Organization
	if err := config.DB.Order("name ASC").Find(&orgs).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar organizações")
		return
	}

	type orgOut struct {
		models.Organization
		Counts organizationCounts `json:"counts"`
	}
	out := make([]orgOut, len(orgs))
	for i, o := range orgs {
		out[i] = orgOut{Organization: o, Counts: countOrgDependents(o.ID)}
	}
	utils.Respond(w, http.StatusOK, "Organizações carregadas", out)
}

// GetOrganization returns one organization with up to 10 user and farm
// summaries.
func GetOrganization(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var org models.Organization
	if err := config.DB.
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Limit(10) }).
		Preload("Farms", func(db *gorm.DB) *gorm.DB { return db.Limit(10) }).
		First(&org, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Organização não encontrada")
		return
	}

	type orgOut struct {
		models.Organization
		Counts organizationCounts `json:"counts"`
	}
	utils.Respond(w, http.StatusOK, "Organização carregada", orgOut{
		Organization: org,
		Counts:       countOrgDependents(org.ID),
	})
}

// UpdateOrganization — roles restricted in the route table.
func UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var org models.Organization
	if err := config.DB.First(&org, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Organização não encontrada")
		return
	}

	var req organizationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Name != "" {
		org.Name = strings.TrimSpace(req.Name)
	}
	if req.Type != "" {
		org.Type = req.Type
	}
	if req.Country != "" {
		org.Country = req.Country
	}
	if req.ContactEmail != "" {
		org.ContactEmail = req.ContactEmail
	}

	if err := config.DB.Save(&org).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar organização")
		return
	}
	utils.Respond(w, http.StatusOK, "Organização atualizada com sucesso", org)
}

// DeleteOrganization refuses to remove an organization while dependent users
// or farms exist.
func DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var org models.Organization
	if err := config.DB.First(&org, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Organização não encontrada")
		return
	}

	counts := countOrgDependents(org.ID)
	if counts.Users > 0 || counts.Farms > 0 {
		utils.Error(w, http.StatusForbidden, "Não é possível deletar organização com usuários ou fazendas associadas")
		return
	}

	if err := config.DB.Delete(&org).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao remover organização")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOrganizationStatistics aggregates user, farm and area totals.
func GetOrganizationStatistics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var org models.Organization
	if err := config.DB.First(&org, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Organização não encontrada")
		return
	}

	counts := countOrgDependents(org.ID)

	var totalArea, avgArea float64
	row := config.DB.Model(&models.Farm{}).
		Where("organization_id = ?", org.ID).
		Select("COALESCE(SUM(area_ha), 0), COALESCE(AVG(area_ha), 0)").
		Row()
	row.Scan(&totalArea, &avgArea)

	utils.Respond(w, http.StatusOK, "Estatísticas carregadas", map[string]interface{}{
		"organization": org.Name,
		"totalUsers":   counts.Users,
		"totalFarms":   counts.Farms,
		"totalArea":    totalArea,
		"averageArea":  avgArea,
	})
}
