// handlers/farms.go
package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

type farmReq struct {
	Name           string          `json:"name"`
	CentroidLat    *float64        `json:"centroidLat"`
	CentroidLon    *float64        `json:"centroidLon"`
	Boundary       json.RawMessage `json:"boundary"`
	AreaHa         *float64        `json:"areaHa"`
	SoilType       *string         `json:"soilType"`
	Province       *string         `json:"province"`
	Municipality   *string         `json:"municipality"`
	OrganizationID *uuid.UUID      `json:"organizationId"`
}

// validateBoundary decodes a GeoJSON geometry and requires a polygon with at
// least one closed ring.
func validateBoundary(raw json.RawMessage) error {
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return err
	}
	if geom.Type != "Polygon" && geom.Type != "MultiPolygon" {
		return errNotPolygon
	}
	return nil
}

var errNotPolygon = &boundaryError{"limite da fazenda deve ser um polígono GeoJSON"}

type boundaryError struct{ msg string }

func (e *boundaryError) Error() string { return e.msg }

func validateFarmFields(req farmReq, requireAll bool) []string {
	var errs []string
	if requireAll || req.Name != "" {
		if len(strings.TrimSpace(req.Name)) < 2 {
			errs = append(errs, "Nome deve ter pelo menos 2 caracteres")
		}
	}
	if req.CentroidLat != nil && (*req.CentroidLat < -90 || *req.CentroidLat > 90) {
		errs = append(errs, "Latitude deve estar entre -90 e 90")
	}
	if req.CentroidLon != nil && (*req.CentroidLon < -180 || *req.CentroidLon > 180) {
		errs = append(errs, "Longitude deve estar entre -180 e 180")
	}
	if req.AreaHa != nil && *req.AreaHa <= 0 {
		errs = append(errs, "Área deve ser maior que 0")
	}
	if requireAll {
		if req.CentroidLat == nil {
			errs = append(errs, "Latitude é obrigatória")
		}
		if req.CentroidLon == nil {
			errs = append(errs, "Longitude é obrigatória")
		}
		if req.AreaHa == nil {
			errs = append(errs, "Área é obrigatória")
		}
	}
	if len(req.Boundary) > 0 {
		if err := validateBoundary(req.Boundary); err != nil {
			errs = append(errs, "Limite inválido: "+err.Error())
		}
	}
	return errs
}

// farmScope narrows a farm query to what the caller may see: ADMIN sees all,
// organization-scoped roles see their organization's farms plus their own,
// everyone else only their own.
func farmScope(db *gorm.DB, caller models.User) *gorm.DB {
	switch {
	case caller.Role == models.RoleAdmin:
		return db
	case (caller.Role == models.RoleNGO || caller.Role == models.RoleGovernment) && caller.OrganizationID != nil:
		return db.Where("owner_id = ? OR organization_id = ?", caller.ID, *caller.OrganizationID)
	default:
		return db.Where("owner_id = ?", caller.ID)
	}
}

// CreateFarm registers a farm owned by the authenticated caller.
func CreateFarm(w http.ResponseWriter, r *http.Request) {
	var req farmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if errs := validateFarmFields(req, true); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	caller := middleware.GetUser(r)
	farm := models.Farm{
		Name:           strings.TrimSpace(req.Name),
		CentroidLat:    *req.CentroidLat,
		CentroidLon:    *req.CentroidLon,
		AreaHa:         *req.AreaHa,
		OwnerID:        caller.ID,
		OrganizationID: caller.OrganizationID,
	}
	if req.SoilType != nil {
		farm.SoilType = *req.SoilType
	}
	if req.Province != nil {
		farm.Province = *req.Province
	}
	if req.Municipality != nil {
		farm.Municipality = *req.Municipality
	}
	if req.OrganizationID != nil {
		farm.OrganizationID = req.OrganizationID
	}
	if len(req.Boundary) > 0 {
		farm.Boundary = datatypes.JSON(req.Boundary)
	}

	if err := config.DB.Create(&farm).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao criar fazenda")
		return
	}

	config.DB.Preload("Owner").First(&farm, "id = ?", farm.ID)
	utils.Respond(w, http.StatusCreated, "Fazenda criada com sucesso", farm)
}

// GetAllFarms lists farms visible to the caller, newest first.
func GetAllFarms(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := utils.ParsePagination(r)
	caller := middleware.GetUser(r)

	var farms []models.Farm
	if err := farmScope(config.DB.Model(&models.Farm{}), caller).
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&farms).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar fazendas")
		return
	}

	var total int64
	farmScope(config.DB.Model(&models.Farm{}), caller).Count(&total)

	utils.RespondList(w, "Fazendas carregadas", farms, utils.ListMeta{Total: total, Page: page, Limit: limit})
}

// GetFarm returns one farm, gated by the ownership policy.
func GetFarm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var farm models.Farm
	if err := config.DB.Preload("Owner").Preload("Fields").First(&farm, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
		return
	}

	caller := middleware.GetUser(r)
	if !middleware.CallerCanAct(caller, farm.OwnerID, farm.OrganizationID) {
		utils.Error(w, http.StatusForbidden, "Acesso negado a esta fazenda")
		return
	}
	utils.Respond(w, http.StatusOK, "Fazenda carregada", farm)
}

// UpdateFarm mutates a farm, gated by the ownership policy.
func UpdateFarm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var farm models.Farm
	if err := config.DB.First(&farm, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
		return
	}

	caller := middleware.GetUser(r)
	if !middleware.CallerCanAct(caller, farm.OwnerID, farm.OrganizationID) {
		utils.Error(w, http.StatusForbidden, "Acesso negado para editar esta fazenda")
		return
	}

	var req farmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if errs := validateFarmFields(req, false); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	if req.Name != "" {
		farm.Name = strings.TrimSpace(req.Name)
	}
	if req.CentroidLat != nil {
		farm.CentroidLat = *req.CentroidLat
	}
	if req.CentroidLon != nil {
		farm.CentroidLon = *req.CentroidLon
	}
	if req.AreaHa != nil {
		farm.AreaHa = *req.AreaHa
	}
	if req.SoilType != nil {
		farm.SoilType = *req.SoilType
	}
	if req.Province != nil {
		farm.Province = *req.Province
	}
	if req.Municipality != nil {
		farm.Municipality = *req.Municipality
	}
	if req.OrganizationID != nil {
		farm.OrganizationID = req.OrganizationID
	}
	if len(req.Boundary) > 0 {
		farm.Boundary = datatypes.JSON(req.Boundary)
	}

	if err := config.DB.Save(&farm).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao atualizar fazenda")
		return
	}
	utils.Respond(w, http.StatusOK, "Fazenda atualizada com sucesso", farm)
}

// DeleteFarm removes a farm, gated by the ownership policy.
func DeleteFarm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var farm models.Farm
	if err := config.DB.First(&farm, "id = ?", id).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
		return
	}

	caller := middleware.GetUser(r)
	if !middleware.CallerCanAct(caller, farm.OwnerID, farm.OrganizationID) {
		utils.Error(w, http.StatusForbidden, "Acesso negado para deletar esta fazenda")
		return
	}

	if err := config.DB.Delete(&farm).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao remover fazenda")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetNearbyFarms returns farms whose centroid falls inside an approximate
// bounding box around the given point. radius is in kilometers (default 10).
func GetNearbyFarms(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		utils.ValidationError(w, []string{"Parâmetros lat e lon são obrigatórios e devem ser coordenadas válidas"})
		return
	}
	radius := 10.0
	if rv, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64); err == nil && rv > 0 {
		radius = rv
	}

	// 1 degree of latitude ≈ 111 km; longitude shrinks with cos(lat).
	latRange := radius / 111.0
	lonRange := radius / (111.0 * math.Cos(lat*math.Pi/180.0))

	var farms []models.Farm
	if err := config.DB.
		Where("centroid_lat BETWEEN ? AND ?", lat-latRange, lat+latRange).
		Where("centroid_lon BETWEEN ? AND ?", lon-lonRange, lon+lonRange).
		Preload("Owner").
		Find(&farms).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar fazendas")
		return
	}
	utils.Respond(w, http.StatusOK, "Fazendas próximas carregadas", farms)
}

type farmStats struct {
	TotalFarms  int64   `json:"totalFarms"`
	TotalArea   float64 `json:"totalArea"`
	AverageArea float64 `json:"averageArea"`
}

// GetFarmStats aggregates the farms the caller may see.
func GetFarmStats(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)

	var stats farmStats
	row := farmScope(config.DB.Model(&models.Farm{}), caller).
		Select("COUNT(id) AS total_farms, COALESCE(SUM(area_ha), 0) AS total_area, COALESCE(AVG(area_ha), 0) AS average_area").
		Row()
	if err := row.Scan(&stats.TotalFarms, &stats.TotalArea, &stats.AverageArea); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao calcular estatísticas")
		return
	}
	utils.Respond(w, http.StatusOK, "Estatísticas carregadas", stats)
}
