// handlers/python_service.go
//
// Outbound client for the external Python analytics/ML service. Timeouts are
// tiered to the expected cost of the remote operation: a plain data fetch is
// cheap, ML inference is slower, imagery processing is the heaviest. There is
// no retry policy — a single failed attempt falls back to cache (weather
// only) or surfaces a service-unavailable error.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"farmnav.ao/api/config"
	"farmnav.ao/api/models"
)

const (
	healthTimeout    = 5 * time.Second
	weatherTimeout   = 30 * time.Second
	mlTimeout        = 60 * time.Second // ML inference
	satelliteTimeout = 120 * time.Second

	weatherCacheTTL = time.Hour

	pythonSource = "python_service"
)

var (
	ErrFarmNotFound      = errors.New("fazenda não encontrada")
	ErrCropTypeNotFound  = errors.New("tipo de cultura não encontrado")
	ErrPythonUnavailable = errors.New("serviço de análise indisponível")
	errRemoteNonSuccess  = errors.New("remote returned non-success status")
)

type WeatherRequest struct {
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
}

type RecommendationRequest struct {
	FarmID  *uuid.UUID `json:"farmId"`
	FieldID *uuid.UUID `json:"fieldId,omitempty"`
	Type    string     `json:"type,omitempty"`
}

type CropSimulationRequest struct {
	FarmID       *uuid.UUID `json:"farmId"`
	CropTypeID   *uuid.UUID `json:"cropTypeId"`
	AreaHa       *float64   `json:"areaHa,omitempty"`
	PlantingDate string     `json:"plantingDate,omitempty"`
}

type SatelliteRequest struct {
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	RadiusMeters *int     `json:"radiusMeters,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Metrics      []string `json:"metrics,omitempty"`
}

type PythonService struct {
	db      *gorm.DB
	baseURL string

	healthClient    *http.Client
	weatherClient   *http.Client
	mlClient        *http.Client
	satelliteClient *http.Client
}

func NewPythonService(db *gorm.DB, baseURL string) *PythonService {
	return &PythonService{
		db:              db,
		baseURL:         baseURL,
		healthClient:    &http.Client{Timeout: healthTimeout},
		weatherClient:   &http.Client{Timeout: weatherTimeout},
		mlClient:        &http.Client{Timeout: mlTimeout},
		satelliteClient: &http.Client{Timeout: satelliteTimeout},
	}
}

var (
	pythonOnce sync.Once
	python     *PythonService
)

// pythonSvc returns the process-wide gateway, built lazily from config.
func pythonSvc() *PythonService {
	pythonOnce.Do(func() {
		python = NewPythonService(config.DB, config.PythonServiceURL())
	})
	return python
}

func (s *PythonService) postJSON(client *http.Client, path string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errRemoteNonSuccess, resp.StatusCode)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// digFloat walks nested JSON maps and returns the float at the end of the
// key path, or nil.
func digFloat(m map[string]interface{}, keys ...string) *float64 {
	var cur interface{} = m
	for _, k := range keys {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = mm[k]
		if !ok {
			return nil
		}
	}
	if f, ok := cur.(float64); ok {
		return &f
	}
	return nil
}

// GetWeatherData forwards a weather request. On success the raw payload is
// persisted best-effort as a cache row; on failure the most recent cache row
// younger than one hour is returned instead, if any.
func (s *PythonService) GetWeatherData(req WeatherRequest) (map[string]interface{}, error) {
	log.Printf("[PYTHON] requesting weather data for lat=%v lon=%v", *req.Lat, *req.Lon)

	data, err := s.postJSON(s.weatherClient, "/weather", req)
	if err != nil {
		log.Printf("[PYTHON] weather request failed: %v", err)
		if cached := s.cachedWeather(); cached != nil {
			log.Println("[PYTHON] returning cached weather data")
			return cached, nil
		}
		return nil, ErrPythonUnavailable
	}

	s.cacheWeather(data)
	return data, nil
}

func (s *PythonService) cacheWeather(data map[string]interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[PYTHON] failed to cache weather data: %v", err)
		return
	}
	obs := models.WeatherObservation{
		Timestamp:       time.Now(),
		Source:          pythonSource,
		TemperatureC:    digFloat(data, "data", "current", "temperature"),
		PrecipitationMm: digFloat(data, "data", "current", "precipitation"),
		Humidity:        digFloat(data, "data", "current", "humidity"),
		WindSpeedMps:    digFloat(data, "data", "current", "windSpeed"),
		Raw:             datatypes.JSON(raw),
	}
	if err := s.db.Create(&obs).Error; err != nil {
		log.Printf("[PYTHON] failed to cache weather data: %v", err)
	}
}

func (s *PythonService) cachedWeather() map[string]interface{} {
	var obs models.WeatherObservation
	err := s.db.
		Where("timestamp >= ?", time.Now().Add(-weatherCacheTTL)).
		Order("timestamp DESC").
		First(&obs).Error
	if err != nil {
		return nil
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(obs.Raw, &payload); err != nil {
		log.Printf("[PYTHON] cached weather row is unreadable: %v", err)
		return nil
	}
	return payload
}

// GetRecommendations enriches the request with farm context and the five
// most recent plantings before forwarding. No cache fallback here: stale
// advice is worse than no advice.
func (s *PythonService) GetRecommendations(req RecommendationRequest) (map[string]interface{}, error) {
	var farm models.Farm
	if err := s.db.Preload("Owner").First(&farm, "id = ?", *req.FarmID).Error; err != nil {
		return nil, ErrFarmNotFound
	}

	var plantings []models.Planting
	s.db.
		Where("farm_id = ?", farm.ID).
		Preload("Crop").
		Order("planted_at DESC").
		Limit(5).
		Find(&plantings)

	history := make([]map[string]interface{}, 0, len(plantings))
	for _, p := range plantings {
		cropName := ""
		if p.Crop != nil {
			cropName = p.Crop.Name
		}
		history = append(history, map[string]interface{}{
			"crop_name":    cropName,
			"planted_at":   p.PlantedAt,
			"area_ha":      p.AreaHa,
			"actual_yield": p.ActualYieldKg,
		})
	}

	payload := map[string]interface{}{
		"farmId":  req.FarmID,
		"fieldId": req.FieldID,
		"type":    req.Type,
		"farm_data": map[string]interface{}{
			"lat":          farm.CentroidLat,
			"lon":          farm.CentroidLon,
			"area_ha":      farm.AreaHa,
			"soil_type":    farm.SoilType,
			"province":     farm.Province,
			"municipality": farm.Municipality,
		},
		"historical_plantings": history,
	}

	log.Printf("[PYTHON] requesting recommendations for farm %s", farm.ID)
	data, err := s.postJSON(s.mlClient, "/recommendations", payload)
	if err != nil {
		log.Printf("[PYTHON] recommendation request failed: %v", err)
		return nil, ErrPythonUnavailable
	}

	s.saveRecommendations(farm.ID, req.FieldID, data)
	return data, nil
}

// saveRecommendations persists each ML recommendation best-effort.
func (s *PythonService) saveRecommendations(farmID uuid.UUID, fieldID *uuid.UUID, data map[string]interface{}) {
	items, ok := data["recommendations"].([]interface{})
	if !ok {
		return
	}
	for _, item := range items {
		rec, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		row := models.Recommendation{
			FarmID:    &farmID,
			FieldID:   fieldID,
			CreatedBy: pythonSource,
			Type:      "GENERAL",
		}
		if t, ok := rec["type"].(string); ok && t != "" {
			row.Type = t
		}
		if title, ok := rec["title"].(string); ok && title != "" {
			row.Title = title
		} else if cropName, ok := rec["cropName"].(string); ok {
			row.Title = cropName + " Recommendation"
		} else {
			row.Title = "Recomendação"
		}
		if body, ok := rec["description"].(string); ok {
			row.Body = body
		} else if raw, err := json.Marshal(rec["recommendations"]); err == nil {
			row.Body = string(raw)
		}
		if score, ok := rec["confidence"].(float64); ok {
			row.Score = &score
		}
		if actions, err := json.Marshal(rec["recommendations"]); err == nil {
			row.ActionSuggested = datatypes.JSON(actions)
		}
		meta, err := json.Marshal(map[string]interface{}{
			"yield_estimate": rec["yield_estimate"],
			"source":         "ml_model",
			"processed_at":   time.Now().UTC().Format(time.RFC3339),
		})
		if err == nil {
			row.Metadata = datatypes.JSON(meta)
		}

		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("[PYTHON] failed to save recommendation: %v", err)
		}
	}
}

// SimulateCropGrowth fetches farm and crop type concurrently, enriches the
// request with both, and forwards it. Nothing is cached.
func (s *PythonService) SimulateCropGrowth(req CropSimulationRequest) (map[string]interface{}, error) {
	var (
		farm    models.Farm
		crop    models.CropType
		farmErr error
		cropErr error
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		farmErr = s.db.First(&farm, "id = ?", *req.FarmID).Error
	}()
	go func() {
		defer wg.Done()
		cropErr = s.db.First(&crop, "id = ?", *req.CropTypeID).Error
	}()
	wg.Wait()

	if farmErr != nil {
		return nil, ErrFarmNotFound
	}
	if cropErr != nil {
		return nil, ErrCropTypeNotFound
	}

	payload := map[string]interface{}{
		"farmId":       req.FarmID,
		"cropTypeId":   req.CropTypeID,
		"areaHa":       req.AreaHa,
		"plantingDate": req.PlantingDate,
		"farm_data": map[string]interface{}{
			"lat":       farm.CentroidLat,
			"lon":       farm.CentroidLon,
			"soil_type": farm.SoilType,
		},
		"crop_data": map[string]interface{}{
			"name":                crop.Name,
			"scientific_name":     crop.ScientificName,
			"typical_start_month": crop.TypicalStartMonth,
			"typical_end_month":   crop.TypicalEndMonth,
		},
	}

	log.Printf("[PYTHON] requesting crop simulation for farm %s crop %s", farm.ID, crop.ID)
	data, err := s.postJSON(s.mlClient, "/simulate-crop", payload)
	if err != nil {
		log.Printf("[PYTHON] crop simulation failed: %v", err)
		return nil, ErrPythonUnavailable
	}
	return data, nil
}

// GetSatelliteData forwards an imagery request. Results are persisted
// best-effort; there is no read fallback.
func (s *PythonService) GetSatelliteData(req SatelliteRequest) (map[string]interface{}, error) {
	log.Printf("[PYTHON] requesting satellite data for lat=%v lon=%v", *req.Lat, *req.Lon)

	data, err := s.postJSON(s.satelliteClient, "/satellite-data", req)
	if err != nil {
		log.Printf("[PYTHON] satellite request failed: %v", err)
		return nil, ErrPythonUnavailable
	}

	s.cacheSatellite(data)
	return data, nil
}

func (s *PythonService) cacheSatellite(data map[string]interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[PYTHON] failed to cache satellite data: %v", err)
		return
	}
	obs := models.SatelliteObservation{
		Timestamp:    time.Now(),
		Source:       pythonSource,
		NDVI:         digFloat(data, "data", "ndvi", "current"),
		EVI:          digFloat(data, "data", "evi", "current"),
		SoilMoisture: digFloat(data, "data", "soil_moisture", "current"),
		Metrics:      datatypes.JSON(raw),
	}
	if urls, ok := data["raw_urls"].([]interface{}); ok && len(urls) > 0 {
		if u, ok := urls[0].(string); ok {
			obs.RawURL = u
		}
	}
	if err := s.db.Create(&obs).Error; err != nil {
		log.Printf("[PYTHON] failed to cache satellite data: %v", err)
	}
}

// GetServiceHealth probes the remote health endpoint. It never fails: an
// unreachable service is reported as a degraded status object.
func (s *PythonService) GetServiceHealth() map[string]interface{} {
	resp, err := s.healthClient.Get(s.baseURL + "/health")
	if err != nil {
		return map[string]interface{}{"status": "unhealthy", "python_service": "unavailable"}
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	remote := "unknown"
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if st, ok := body["status"].(string); ok {
			remote = st
		}
	}
	if resp.StatusCode >= 300 {
		return map[string]interface{}{"status": "unhealthy", "python_service": remote}
	}
	return map[string]interface{}{"status": "healthy", "python_service": remote}
}
