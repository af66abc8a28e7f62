// handlers/python.go
//
// HTTP surface for the Python analytics gateway. Handlers validate the
// request, delegate to the shared PythonService, and translate sentinel
// errors into status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"farmnav.ao/api/utils"
)

// PythonHealth reports the combined health of the analytics integration.
// Always 200: an unreachable remote is data, not an error.
func PythonHealth(w http.ResponseWriter, r *http.Request) {
	utils.Respond(w, http.StatusOK, "Estado do serviço de análise", pythonSvc().GetServiceHealth())
}

// GetWeather proxies a weather request for a coordinate pair.
func GetWeather(w http.ResponseWriter, r *http.Request) {
	var req WeatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if req.Lat == nil || *req.Lat < -90 || *req.Lat > 90 {
		errs = append(errs, "Latitude deve estar entre -90 e 90")
	}
	if req.Lon == nil || *req.Lon < -180 || *req.Lon > 180 {
		errs = append(errs, "Longitude deve estar entre -180 e 180")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	data, err := pythonSvc().GetWeatherData(req)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "Serviço de análise indisponível. Tente novamente mais tarde")
		return
	}
	utils.Respond(w, http.StatusOK, "Dados meteorológicos carregados", data)
}

// GetMLRecommendations requests ML-generated recommendations for a farm.
func GetMLRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.FarmID == nil {
		utils.ValidationError(w, []string{"farmId é obrigatório"})
		return
	}

	data, err := pythonSvc().GetRecommendations(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFarmNotFound):
			utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
		default:
			utils.Error(w, http.StatusServiceUnavailable, "Serviço de análise indisponível. Tente novamente mais tarde")
		}
		return
	}
	utils.Respond(w, http.StatusOK, "Recomendações geradas", data)
}

// SimulateCrop runs a crop-growth simulation for a farm/crop pair.
func SimulateCrop(w http.ResponseWriter, r *http.Request) {
	var req CropSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if req.FarmID == nil {
		errs = append(errs, "farmId é obrigatório")
	}
	if req.CropTypeID == nil {
		errs = append(errs, "cropTypeId é obrigatório")
	}
	if req.AreaHa != nil && *req.AreaHa <= 0 {
		errs = append(errs, "Área deve ser maior que zero")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	data, err := pythonSvc().SimulateCropGrowth(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFarmNotFound):
			utils.Error(w, http.StatusNotFound, "Fazenda não encontrada")
		case errors.Is(err, ErrCropTypeNotFound):
			utils.Error(w, http.StatusNotFound, "Tipo de cultura não encontrado")
		default:
			utils.Error(w, http.StatusServiceUnavailable, "Serviço de análise indisponível. Tente novamente mais tarde")
		}
		return
	}
	utils.Respond(w, http.StatusOK, "Simulação concluída", data)
}

// GetSatelliteData proxies a satellite imagery request. Staff roles only
// (route table) — imagery processing is the most expensive remote call.
func GetSatelliteData(w http.ResponseWriter, r *http.Request) {
	var req SatelliteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if req.Lat == nil || *req.Lat < -90 || *req.Lat > 90 {
		errs = append(errs, "Latitude deve estar entre -90 e 90")
	}
	if req.Lon == nil || *req.Lon < -180 || *req.Lon > 180 {
		errs = append(errs, "Longitude deve estar entre -180 e 180")
	}
	if req.RadiusMeters != nil && *req.RadiusMeters <= 0 {
		errs = append(errs, "Raio deve ser maior que zero")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	data, err := pythonSvc().GetSatelliteData(req)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "Serviço de análise indisponível. Tente novamente mais tarde")
		return
	}
	utils.Respond(w, http.StatusOK, "Dados de satélite carregados", data)
}
