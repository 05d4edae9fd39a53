package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/models"
)

// ExportVehiclesHandler dumps the pipeline to an Excel workbook, one row per
// vehicle with its readiness score, for the weekly stock review.
func ExportVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.Vehicle{}).Preload("Invoices")
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.VehicleStatus(status).IsValid() {
			http.Error(w, fmt.Sprintf("unknown status %q", status), http.StatusBadRequest)
			return
		}
		query = query.Where("status = ?", status)
	}

	var vehicles []models.Vehicle
	if err := query.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		http.Error(w, "failed to fetch vehicles: "+err.Error(), http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	sheet := "Vehicles"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"ID", "Status", "Make", "Model", "Year", "Mileage", "VIN", "Region",
		"Asking Price", "Purchase Price", "Min Selling", "Max Selling",
		"Readiness %", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, v := range vehicles {
		values := []interface{}{
			v.ID.String(), string(v.Status), v.Make, v.Model, v.Year, v.Mileage,
			v.VIN, v.Region, v.AskingPrice, v.PurchasePrice,
			v.MinSellingPrice, v.MaxSellingPrice,
			ReadinessScore(&v),
			v.CreatedAt.Format(time.RFC3339),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, val)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("vehicles_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
