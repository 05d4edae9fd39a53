package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/models"
)

type invoiceCreateReq struct {
	InvoiceNumber string           `json:"invoiceNumber,omitempty"`
	InvestorName  string           `json:"investorName"`
	Amount        float64          `json:"amount"`
	IssuedAt      *models.JSONTime `json:"issuedAt,omitempty"`
}

func (req invoiceCreateReq) validate() error {
	if req.InvestorName == "" {
		return errors.New("investorName is required")
	}
	if req.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// CreateInvoiceHandler raises an investor invoice against a vehicle. Cost
// evidence uploads land on invoices, so a purchased vehicle needs at least
// one before its readiness can reach 100.
func CreateInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	var req invoiceCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	invoice := models.Invoice{
		VehicleID:           vehicle.ID,
		InvoiceNumber:       req.InvoiceNumber,
		InvestorName:        req.InvestorName,
		Amount:              req.Amount,
		IssuedAt:            req.IssuedAt,
		CostInvoiceEvidence: make(models.CostEvidenceMap),
	}
	if err := config.DB.Create(&invoice).Error; err != nil {
		http.Error(w, "failed to create invoice: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invoice)
}

// GetInvoicesHandler lists a vehicle's invoices, oldest first.
func GetInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Where("vehicle_id = ?", vehicleID).Order("created_at ASC").Find(&invoices).Error; err != nil {
		http.Error(w, "failed to fetch invoices: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"invoices": invoices})
}
