package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"farmnav.ao/api/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250923_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Organization{}, &models.User{},
					&models.Farm{}, &models.Field{}, &models.CropType{}, &models.Planting{})
			},
		},
		{
			ID: "20250923_create_recommendation_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Recommendation{})
			},
		},
		{
			ID: "20250924_create_observation_caches",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.WeatherObservation{}, &models.SatelliteObservation{})
			},
		},
		{
			ID: "20250924_create_ussd_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.USSDLog{})
			},
		},
	})

	return m.Migrate()
}
