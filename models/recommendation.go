// models/recommendation.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recommendation is an advisory record. Rows are created either by staff
// roles through the API or by the analytics gateway on behalf of the ML
// backend (CreatedBy = "python_service").
type Recommendation struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID          *uuid.UUID     `gorm:"type:uuid;index" json:"farmId,omitempty"`
	Farm            *Farm          `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
	FieldID         *uuid.UUID     `gorm:"type:uuid;index" json:"fieldId,omitempty"`
	Field           *Field         `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	CreatedBy       string         `gorm:"size:100" json:"createdBy"`
	Type            string         `gorm:"size:50;not null;default:GENERAL" json:"type"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Body            string         `gorm:"type:text" json:"body"`
	Score           *float64       `json:"score,omitempty"` // confidence in [0,1]
	ActionSuggested datatypes.JSON `gorm:"type:jsonb" json:"actionSuggested,omitempty"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	Actioned        bool           `gorm:"not null;default:false" json:"actioned"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
