// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform roles. The route table and the ownership policy are the only
// places that interpret these values.
const (
	RoleFarmer     = "FARMER"
	RoleTechnician = "TECHNICIAN"
	RoleNGO        = "NGO"
	RoleGovernment = "GOVERNMENT"
	RoleAdmin      = "ADMIN"
)

// ValidRole reports whether role is one of the known platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleTechnician, RoleNGO, RoleGovernment, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Email          *string       `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone          *string       `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	PasswordHash   string        `gorm:"size:255" json:"-"`
	Name           string        `gorm:"size:100;not null" json:"name"`
	Role           string        `gorm:"size:20;not null;default:FARMER" json:"role"`
	Language       string        `gorm:"size:10;not null;default:pt" json:"language"`
	Timezone       string        `gorm:"size:50;not null;default:Africa/Luanda" json:"timezone"`
	OrganizationID *uuid.UUID    `gorm:"type:uuid;index" json:"organizationId,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`

	Farms []Farm `gorm:"foreignKey:OwnerID" json:"farms,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
