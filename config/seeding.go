package config

import (
	"log"

	"farmnav.ao/api/models"
)

func intPtr(i int) *int { return &i }

// SeedCropTypes populates the crop catalog with the staple crops of the
// Angolan planting calendar. Skips entirely if any crop types exist.
func SeedCropTypes() error {
	var count int64
	if err := DB.Model(&models.CropType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	crops := []models.CropType{
		{Name: "Milho", ScientificName: "Zea mays", Description: "Cereal básico, época das chuvas", TypicalStartMonth: intPtr(10), TypicalEndMonth: intPtr(4)},
		{Name: "Mandioca", ScientificName: "Manihot esculenta", Description: "Tubérculo resistente à seca", TypicalStartMonth: intPtr(9), TypicalEndMonth: intPtr(12)},
		{Name: "Feijão", ScientificName: "Phaseolus vulgaris", Description: "Leguminosa de ciclo curto", TypicalStartMonth: intPtr(2), TypicalEndMonth: intPtr(5)},
		{Name: "Amendoim", ScientificName: "Arachis hypogaea", Description: "Oleaginosa de sequeiro", TypicalStartMonth: intPtr(11), TypicalEndMonth: intPtr(3)},
		{Name: "Batata-doce", ScientificName: "Ipomoea batatas", Description: "Tubérculo de época seca", TypicalStartMonth: intPtr(4), TypicalEndMonth: intPtr(8)},
		{Name: "Sorgo", ScientificName: "Sorghum bicolor", Description: "Cereal tolerante ao calor", TypicalStartMonth: intPtr(11), TypicalEndMonth: intPtr(4)},
	}

	if err := DB.Create(&crops).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d crop types", len(crops))
	return nil
}
