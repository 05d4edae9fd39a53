package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
	"p9e.in/cartrade/utils"
)

// validCostType reports whether costType is one of the job-costing keys.
func validCostType(costType string) bool {
	for _, ct := range models.CostTypes {
		if ct == costType {
			return true
		}
	}
	return false
}

// UploadCostEvidenceHandler attaches proof-of-payment for one cost type to an
// invoice. A single file per request; the evidence map key is the cost type.
func UploadCostEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	costType := vars["costType"]
	if !validCostType(costType) {
		http.Error(w, fmt.Sprintf("unknown cost type %q", costType), http.StatusBadRequest)
		return
	}
	invoiceID, err := uuid.Parse(vars["invoiceId"])
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("id = ? AND vehicle_id = ?", invoiceID, vars["id"]).First(&invoice).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	file.Close()

	meta := utils.FileMeta{
		Name: header.Filename,
		Type: header.Header.Get("Content-Type"),
		Size: header.Size,
	}
	if err := utils.CheckUpload(meta); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	url, err := saveUpload(header, "evidence")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if invoice.CostInvoiceEvidence == nil {
		invoice.CostInvoiceEvidence = make(models.CostEvidenceMap)
	}
	now := models.JSONTime(time.Now())
	invoice.CostInvoiceEvidence[costType] = models.CostEvidence{
		URL:        url,
		FileName:   header.Filename,
		FileSize:   header.Size,
		FileType:   meta.Type,
		UploadedAt: &now,
		UploadedBy: claims.Name,
	}

	if err := config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("cost_invoice_evidence", invoice.CostInvoiceEvidence).Error; err != nil {
		http.Error(w, "failed to save evidence: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"costType": costType,
		"evidence": invoice.CostInvoiceEvidence[costType],
	})
}

// DeleteCostEvidenceHandler removes evidence for one cost type. Admin only:
// financial evidence carries audit weight, whoever uploaded it.
func DeleteCostEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := uuid.Parse(claims.UserID)
	actor := utils.Actor{ID: userID, Role: models.Role(claims.Role)}
	if !utils.CanDeleteCostEvidence(actor) {
		http.Error(w, "only admins may delete cost evidence", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	costType := vars["costType"]
	invoiceID, err := uuid.Parse(vars["invoiceId"])
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("id = ? AND vehicle_id = ?", invoiceID, vars["id"]).First(&invoice).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	if _, ok := invoice.CostInvoiceEvidence[costType]; !ok {
		http.Error(w, "no evidence for cost type "+costType, http.StatusNotFound)
		return
	}
	delete(invoice.CostInvoiceEvidence, costType)

	if err := config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("cost_invoice_evidence", invoice.CostInvoiceEvidence).Error; err != nil {
		http.Error(w, "failed to delete evidence: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "evidence deleted"})
}
