// handlers/croptypes.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"farmnav.ao/api/config"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

type cropTypeReq struct {
	Name              string  `json:"name"`
	ScientificName    *string `json:"scientificName"`
	Description       *string `json:"description"`
	TypicalStartMonth *int    `json:"typicalStartMonth"`
	TypicalEndMonth   *int    `json:"typicalEndMonth"`
}

func validateCropTypeFields(req cropTypeReq, requireName bool) []string {
	var errs []string
	if requireName && len(strings.TrimSpace(req.Name)) < 2 {
		errs = append(errs, "Nome deve ter pelo menos 2 caracteres")
	}
	if req.TypicalStartMonth != nil && (*req.TypicalStartMonth < 1 || *req.TypicalStartMonth > 12) {
		errs = append(errs, "Mês de início deve estar entre 1 e 12")
	}
	if req.TypicalEndMonth != nil && (*req.TypicalEndMonth < 1 || *req.TypicalEndMonth > 12) {
		errs = append(errs, "Mês de fim deve estar entre 1 e 12")
	}
	return errs
}

// CreateCropType adds a catalog entry. ADMIN/TECHNICIAN (route table).
func CreateCropType(w http.ResponseWriter, r *http.Request) {
	var req cropTypeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if errs := validateCropTypeFields(req, true); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	crop := models.CropType{
		Name:              strings.TrimSpace(req.Name),
		TypicalStartMonth: req.TypicalStartMonth,
		TypicalEndMonth:   req.TypicalEndMonth,
	}
	if req.ScientificName != nil {
		crop.ScientificName = *req.ScientificName
	}
	if req.Description != nil {
		crop.Description = *req.Description
	}

	if err := config.DB.Create(&crop).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			utils.Error(w, http.StatusConflict, "Tipo de cultura já existe")
		} else {
			utils.Error(w, http.StatusInternalServerError, "Erro ao criar tipo de cultura")
		}
		return
	}
	utils.Respond(w, http.StatusCreated, "Tipo de cultura criado com sucesso", crop)
}

// GetAllCropTypes lists the catalog.
func GetAllCropTypes(w http.ResponseWriter, r *http.Request) {
	var crops []models.CropType
	if err := config.DB.Order("name ASC").Find(&crops).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar tipos de cultura")
		return
	}
	utils.Respond(w, http.StatusOK, "Tipos de cultura carregados", crops)
}

// GetCropType returns one catalog entry with its plantings.
func GetCropType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var crop models.CropType
	if err := config.DB.
		Preload("Plantings").
		Preload("Plantings.Farm").
		Preload("Plantings.Field").
		First(&crop, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Tipo de cultura não encontrado")
		return
	}
	utils.Respond(w, http.StatusOK, "Tipo de cultura carregado", crop)
}

// UpdateCropType mutates a catalog entry. ADMIN/TECHNICIAN (route table).
func UpdateCropType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var crop models.CropType
	if err := config.DB.First(&crop, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Tipo de cultura não encontrado")
		return
	}

	var req cropTypeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if errs := validateCropTypeFields(req, false); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	if req.Name != "" {
		crop.Name = strings.TrimSpace(req.Name)
	}
	if req.ScientificName != nil {
		crop.ScientificName = *req.ScientificName
	}
	if req.Description != nil {
		crop.Description = *req.Description
	}
	if req.TypicalStartMonth != nil {
		crop.TypicalStartMonth = req.TypicalStartMonth
	}
	if req.TypicalEndMonth != nil {
		crop.TypicalEndMonth = req.TypicalEndMonth
	}

	if err := config.DB.Save(&crop).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar tipo de cultura")
		return
	}
	utils.Respond(w, http.StatusOK, "Tipo de cultura atualizado com sucesso", crop)
}

// DeleteCropType removes a catalog entry. Deletion is refused while any
// planting references the crop (restrict, not cascade).
func DeleteCropType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var crop models.CropType
	if err := config.DB.First(&crop, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Tipo de cultura não encontrado")
		return
	}

	var plantings int64
	config.DB.Model(&models.Planting{}).Where("crop_type_id = ?", crop.ID).Count(&plantings)
	if plantings > 0 {
		utils.Error(w, http.StatusConflict, "Não é possível remover tipo de cultura com plantios associados")
		return
	}

	if err := config.DB.Delete(&crop).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao remover tipo de cultura")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
