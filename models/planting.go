package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Planting records a crop placed on a farm (optionally a specific field).
// The most recent plantings feed the enrichment payload sent to the
// analytics service.
type Planting struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"farmId"`
	Farm          *Farm      `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
	FieldID       *uuid.UUID `gorm:"type:uuid;index" json:"fieldId,omitempty"`
	Field         *Field     `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	CropTypeID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"cropTypeId"`
	Crop          *CropType  `gorm:"foreignKey:CropTypeID" json:"crop,omitempty"`
	PlantedAt     time.Time  `gorm:"column:planted_at;index" json:"plantedAt"`
	AreaHa        float64    `gorm:"column:area_ha" json:"areaHa"`
	Status        string     `gorm:"size:30;default:PLANTED" json:"status"`
	ActualYieldKg *float64   `gorm:"column:actual_yield_kg" json:"actualYieldKg,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p *Planting) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
