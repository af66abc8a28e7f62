// handlers/farms_export.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"farmnav.ao/api/config"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

// ExportFarmsToExcel streams the caller-visible farm inventory as an xlsx
// workbook.
func ExportFarmsToExcel(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)

	var farms []models.Farm
	if err := farmScope(config.DB.Model(&models.Farm{}), caller).
		Preload("Owner").
		Preload("Organization").
		Order("created_at DESC").
		Find(&farms).Error; err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar fazendas")
		return
	}

	f, err := buildFarmWorkbook(farms)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao gerar ficheiro")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="fazendas.xlsx"`)
	if err := f.Write(w); err != nil {
		// Headers are already out; nothing left to do but log.
		fmt.Println("failed writing workbook:", err)
	}
}

func buildFarmWorkbook(farms []models.Farm) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Fazendas"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	headers := []string{"Nome", "Latitude", "Longitude", "Área (ha)", "Solo", "Província", "Município", "Proprietário", "Organização", "Criada em"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, farm := range farms {
		owner := ""
		if farm.Owner != nil {
			owner = farm.Owner.Name
		}
		org := ""
		if farm.Organization != nil {
			org = farm.Organization.Name
		}
		values := []interface{}{
			farm.Name, farm.CentroidLat, farm.CentroidLon, farm.AreaHa,
			farm.SoilType, farm.Province, farm.Municipality,
			owner, org, farm.CreatedAt.Format("2006-01-02"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "J", 18)
	return f, nil
}
