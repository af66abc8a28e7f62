// models/observation.go
//
// Cache rows for external analytics payloads. A few scalar fields are
// extracted for querying; the full payload is kept verbatim in JSONB so a
// cache hit can be replayed to the caller unchanged.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WeatherObservation struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp       time.Time      `gorm:"index;not null" json:"timestamp"`
	Source          string         `gorm:"size:50" json:"source"`
	TemperatureC    *float64       `gorm:"column:temperature_c" json:"temperatureC,omitempty"`
	PrecipitationMm *float64       `gorm:"column:precipitation_mm" json:"precipitationMm,omitempty"`
	Humidity        *float64       `json:"humidity,omitempty"`
	WindSpeedMps    *float64       `gorm:"column:wind_speed_mps" json:"windSpeedMps,omitempty"`
	Raw             datatypes.JSON `gorm:"type:jsonb" json:"raw"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (w *WeatherObservation) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}

type SatelliteObservation struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp    time.Time      `gorm:"index;not null" json:"timestamp"`
	Source       string         `gorm:"size:50" json:"source"`
	NDVI         *float64       `gorm:"column:ndvi" json:"ndvi,omitempty"`
	EVI          *float64       `gorm:"column:evi" json:"evi,omitempty"`
	SoilMoisture *float64       `gorm:"column:soil_moisture" json:"soilMoisture,omitempty"`
	RawURL       string         `gorm:"column:raw_url;size:500" json:"rawUrl,omitempty"`
	Metrics      datatypes.JSON `gorm:"type:jsonb" json:"metrics"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (s *SatelliteObservation) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
