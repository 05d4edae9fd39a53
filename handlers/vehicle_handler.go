package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/models"
	"p9e.in/cartrade/utils"
)

// CreateVehicleHandler captures a new lead. Every record starts at "new".
func CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	vehicle.ID = uuid.Nil
	vehicle.Status = models.StatusNew
	vehicle.CreatedBy = actor.ID

	if vehicle.Make == "" || vehicle.Model == "" {
		http.Error(w, "make and model are required", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		http.Error(w, "failed to create vehicle: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vehicle)
}

// GetVehiclesHandler lists vehicles with filtering and pagination.
func GetVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Vehicle{})

	if status := r.URL.Query().Get("status"); status != "" {
		if !models.VehicleStatus(status).IsValid() {
			http.Error(w, fmt.Sprintf("unknown status %q", status), http.StatusBadRequest)
			return
		}
		query = query.Where("status = ?", status)
	}
	if make_ := r.URL.Query().Get("make"); make_ != "" {
		query = query.Where("make ILIKE ?", make_)
	}
	if region := r.URL.Query().Get("region"); region != "" {
		query = query.Where("region ILIKE ?", region)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("make ILIKE ? OR model ILIKE ? OR vin ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var vehicles []models.Vehicle
	if err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&vehicles).Error; err != nil {
		http.Error(w, "failed to fetch vehicles: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicles": vehicles,
		"total":    total,
		"page":     page,
		"limit":    limit,
		"pages":    (total + int64(limit) - 1) / int64(limit),
	})
}

// GetVehicleHandler returns one vehicle with its full snapshot plus the
// derived readiness breakdown the frontend renders.
func GetVehicleHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var vehicle models.Vehicle
	if err := config.DB.
		Preload("Invoices").
		Preload("Attachments").
		Preload("Notes").
		Preload("PurchaseOrder").
		First(&vehicle, "id = ?", id).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{
		"vehicle":      vehicle,
		"readiness":    BuildReadinessBreakdown(&vehicle),
		"canMarkReady": CheckMarkReady(&vehicle) == nil,
	}
	if vehicle.PurchaseOrder != nil {
		allocations, err := vehicle.PurchaseOrder.InvestorAllocations()
		if err != nil {
			http.Error(w, "corrupt purchase order allocations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp["investorAllocations"] = allocations
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// vehicleEditReq is the subset of core fields editable after capture.
type vehicleEditReq struct {
	Make            *string  `json:"make,omitempty"`
	Model           *string  `json:"model,omitempty"`
	Year            *int     `json:"year,omitempty"`
	Mileage         *int64   `json:"mileage,omitempty"`
	Trim            *string  `json:"trim,omitempty"`
	Color           *string  `json:"color,omitempty"`
	Region          *string  `json:"region,omitempty"`
	VIN             *string  `json:"vin,omitempty"`
	AskingPrice     *float64 `json:"askingPrice,omitempty"`
	PurchasePrice   *float64 `json:"purchasePrice,omitempty"`
	MinSellingPrice *float64 `json:"minSellingPrice,omitempty"`
	MaxSellingPrice *float64 `json:"maxSellingPrice,omitempty"`

	JobCosting  *models.JobCosting  `json:"jobCosting,omitempty"`
	OwnerInfo   *models.OwnerInfo   `json:"ownerInfo,omitempty"`
	ContactInfo *models.ContactInfo `json:"contactInfo,omitempty"`
}

// UpdateVehicleHandler edits core fields. Managers only while the record is
// still new; admins at any stage.
func UpdateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", mux.Vars(r)["id"]).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	if !utils.CanEditVehicle(actor.Role, vehicle.Status) {
		http.Error(w, ErrInvalidRole.Error(), http.StatusForbidden)
		return
	}

	var req vehicleEditReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.Trim != nil {
		vehicle.Trim = *req.Trim
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.Region != nil {
		vehicle.Region = *req.Region
	}
	if req.VIN != nil {
		vehicle.VIN = *req.VIN
	}
	if req.AskingPrice != nil {
		vehicle.AskingPrice = *req.AskingPrice
	}
	if req.PurchasePrice != nil {
		vehicle.PurchasePrice = *req.PurchasePrice
	}
	if req.MinSellingPrice != nil {
		vehicle.MinSellingPrice = *req.MinSellingPrice
	}
	if req.MaxSellingPrice != nil {
		vehicle.MaxSellingPrice = *req.MaxSellingPrice
	}
	if req.JobCosting != nil {
		vehicle.JobCosting = *req.JobCosting
	}
	if req.OwnerInfo != nil {
		vehicle.OwnerInfo = *req.OwnerInfo
	}
	if req.ContactInfo != nil {
		vehicle.ContactInfo = *req.ContactInfo
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		http.Error(w, "failed to update vehicle: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

type statusUpdateReq struct {
	Status models.VehicleStatus `json:"status"`
	Notes  string               `json:"notes,omitempty"`
}

// UpdateStatusHandler changes pipeline status (optionally with a note).
func UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	actor, claims, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var req statusUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	engine := NewLifecycleEngine()
	vehicle, err := engine.UpdateStatus(vehicleID, req.Status, req.Notes, actor, claims.Name)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// MarkReadyHandler moves a complete vehicle into the sales pipeline.
func MarkReadyHandler(w http.ResponseWriter, r *http.Request) {
	actor, claims, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	engine := NewLifecycleEngine()
	vehicle, err := engine.MarkReady(vehicleID, actor, claims.Name)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// MoveToInspectionHandler advances negotiation -> inspection once documents
// are complete.
func MoveToInspectionHandler(w http.ResponseWriter, r *http.Request) {
	actor, claims, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	engine := NewLifecycleEngine()
	vehicle, err := engine.MoveToInspection(vehicleID, actor, claims.Name)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// GetStatusHistoryHandler returns the audit trail of status transitions.
func GetStatusHistoryHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["id"]

	var transitions []models.StatusTransition
	if err := config.DB.Where("vehicle_id = ?", vehicleID).Order("created_at ASC").Find(&transitions).Error; err != nil {
		http.Error(w, "failed to fetch history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"transitions": transitions})
}

// writeGuardError maps lifecycle guard violations to HTTP statuses. Guard
// failures are client errors; everything else is a 500.
func writeGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotReady),
		errors.Is(err, ErrIncompleteDocuments),
		errors.Is(err, ErrIllegalTransition),
		errors.Is(err, ErrTerminalStatus):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidRole):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "vehicle not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
