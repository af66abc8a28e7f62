// handlers/recommendations.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

type recommendationReq struct {
	FarmID          *uuid.UUID      `json:"farmId"`
	FieldID         *uuid.UUID      `json:"fieldId"`
	Type            *string         `json:"type"`
	Title           *string         `json:"title"`
	Body            *string         `json:"body"`
	Score           *float64        `json:"score"`
	ActionSuggested json.RawMessage `json:"actionSuggested"`
	Metadata        json.RawMessage `json:"metadata"`
}

// CreateRecommendation — staff roles only (route table).
func CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if req.Title == nil || len(strings.TrimSpace(*req.Title)) < 2 {
		errs = append(errs, "Título é obrigatório")
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 1) {
		errs = append(errs, "Confiança deve estar entre 0 e 1")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	if req.FarmID != nil {
		var count int64
		config.DB.Model(&models.Farm{}).Where("id = ?", *req.FarmID).Count(&count)
		if count == 0 {
			utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
			return
		}
	}

	rec := models.Recommendation{
		FarmID:    req.FarmID,
		FieldID:   req.FieldID,
		CreatedBy: middleware.GetUserID(r),
		Title:     strings.TrimSpace(*req.Title),
		Score:     req.Score,
	}
	if req.Type != nil {
		rec.Type = *req.Type
	} else {
		rec.Type = "GENERAL"
	}
	if req.Body != nil {
		rec.Body = *req.Body
	}
	if len(req.ActionSuggested) > 0 {
		rec.ActionSuggested = datatypes.JSON(req.ActionSuggested)
	}
	if len(req.Metadata) > 0 {
		rec.Metadata = datatypes.JSON(req.Metadata)
	}

	if err := config.DB.Create(&rec).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao criar recomendação")
		return
	}
	utils.Respond(w, http.StatusCreated, "Recomendação criada com sucesso", rec)
}

// GetAllRecommendations lists recommendations, optionally filtered by
// farmId/fieldId, newest first.
func GetAllRecommendations(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Recommendation{})
	if farmID := r.URL.Query().Get("farmId"); farmID != "" {
		q = q.Where("farm_id = ?", farmID)
	}
	if fieldID := r.URL.Query().Get("fieldId"); fieldID != "" {
		q = q.Where("field_id = ?", fieldID)
	}

	var recs []models.Recommendation
	if err := q.
		Preload("Farm").
		Preload("Field").
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar recomendações")
		return
	}
	utils.Respond(w, http.StatusOK, "Recomendações carregadas", recs)
}

// GetRecommendation returns one recommendation.
func GetRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var rec models.Recommendation
	if err := config.DB.
		Preload("Farm").
		Preload("Farm.Owner").
		Preload("Field").
		First(&rec, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Recomendação não encontrada")
		return
	}
	utils.Respond(w, http.StatusOK, "Recomendação carregada", rec)
}

// UpdateRecommendation — staff roles only (route table).
func UpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var rec models.Recommendation
	if err := config.DB.First(&rec, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Recomendação não encontrada")
		return
	}

	var req recommendationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 1) {
		utils.ValidationError(w, []string{"Confiança deve estar entre 0 e 1"})
		return
	}

	if req.Type != nil {
		rec.Type = *req.Type
	}
	if req.Title != nil {
		rec.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		rec.Body = *req.Body
	}
	if req.Score != nil {
		rec.Score = req.Score
	}
	if len(req.ActionSuggested) > 0 {
		rec.ActionSuggested = datatypes.JSON(req.ActionSuggested)
	}
	if len(req.Metadata) > 0 {
		rec.Metadata = datatypes.JSON(req.Metadata)
	}

	if err := config.DB.Save(&rec).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar recomendação")
		return
	}
	utils.Respond(w, http.StatusOK, "Recomendação atualizada com sucesso", rec)
}

// MarkRecommendationActioned flags a recommendation as executed.
func MarkRecommendationActioned(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var rec models.Recommendation
	if err := config.DB.First(&rec, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Recomendação não encontrada")
		return
	}

	rec.Actioned = true
	if err := config.DB.Save(&rec).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar recomendação")
		return
	}
	utils.Respond(w, http.StatusOK, "Recomendação marcada como executada", rec)
}

// DeleteRecommendation — ADMIN only (route table).
func DeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var rec models.Recommendation
	if err := config.DB.First(&rec, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Recomendação não encontrada")
		return
	}

	if err := config.DB.Delete(&rec).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao remover recomendação")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
