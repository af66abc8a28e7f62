package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CropType is a reference catalog entry. Months are 1-12.
type CropType struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ScientificName    string    `gorm:"size:150" json:"scientificName"`
	Description       string    `gorm:"type:text" json:"description"`
	TypicalStartMonth *int      `json:"typicalStartMonth,omitempty"`
	TypicalEndMonth   *int      `json:"typicalEndMonth,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Plantings []Planting `gorm:"foreignKey:CropTypeID" json:"plantings,omitempty"`
}

func (c *CropType) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
