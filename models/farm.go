// models/farm.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Farm struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	CentroidLat    float64        `gorm:"column:centroid_lat;not null" json:"centroidLat"`
	CentroidLon    float64        `gorm:"column:centroid_lon;not null" json:"centroidLon"`
	Boundary       datatypes.JSON `gorm:"type:jsonb" json:"boundary,omitempty"` // GeoJSON Polygon
	AreaHa         float64        `gorm:"column:area_ha;not null" json:"areaHa"`
	SoilType       string         `gorm:"size:50" json:"soilType"`
	Province       string         `gorm:"size:80" json:"province"`
	Municipality   string         `gorm:"size:80" json:"municipality"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner          *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	OrganizationID *uuid.UUID     `gorm:"type:uuid;index" json:"organizationId,omitempty"`
	Organization   *Organization  `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`

	Fields []Field `gorm:"foreignKey:FarmID" json:"fields,omitempty"`
}

func (f *Farm) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// Field is a named subdivision of a farm. Plantings and recommendations may
// target a field instead of the whole farm.
type Field struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID    uuid.UUID `gorm:"type:uuid;index;not null" json:"farmId"`
	Farm      *Farm     `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	AreaHa    float64   `gorm:"column:area_ha" json:"areaHa"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (f *Field) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
