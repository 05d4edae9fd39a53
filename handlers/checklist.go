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
)

// ChecklistToggle is the optimistic-mutation command for one operational
// task. Apply records the exact prior entry so Compensate can restore it
// bit-for-bit when the store update fails. A phantom "completed" item left
// behind would incorrectly unlock mark-ready.
type ChecklistToggle struct {
	Item string
	Next models.ChecklistItem

	prev       models.ChecklistItem
	prevExists bool
	applied    bool
}

// validTask reports whether item is one of the six fixed task keys.
func validTask(item string) bool {
	for _, t := range models.ChecklistTasks {
		if t == item {
			return true
		}
	}
	return false
}

// Apply writes the new entry into the snapshot, remembering what was there.
func (c *ChecklistToggle) Apply(v *models.Vehicle) error {
	if !validTask(c.Item) {
		return fmt.Errorf("unknown checklist item %q", c.Item)
	}
	if v.OperationalChecklist == nil {
		v.OperationalChecklist = make(models.OperationalChecklist)
	}
	c.prev, c.prevExists = v.OperationalChecklist[c.Item]
	v.OperationalChecklist[c.Item] = c.Next
	c.applied = true
	return nil
}

// Compensate undoes Apply, restoring the snapshot to its prior state.
func (c *ChecklistToggle) Compensate(v *models.Vehicle) {
	if !c.applied {
		return
	}
	if c.prevExists {
		v.OperationalChecklist[c.Item] = c.prev
	} else {
		delete(v.OperationalChecklist, c.Item)
	}
	c.applied = false
}

type checklistUpdateReq struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateChecklistHandler toggles one operational task. The toggle is applied
// to the loaded snapshot first and rolled back if the store rejects it, so
// the readiness numbers returned to the caller always reflect persisted
// state.
func UpdateChecklistHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var req checklistUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Preload("Invoices").First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	item := models.ChecklistItem{
		Completed: req.Completed,
		Notes:     req.Notes,
	}
	if req.Completed {
		item.CompletedBy = claims.Name
		now := models.JSONTime(time.Now())
		item.CompletedAt = &now
	}

	cmd := &ChecklistToggle{Item: req.Item, Next: item}
	if err := cmd.Apply(&vehicle); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := config.DB.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
		Update("operational_checklist", vehicle.OperationalChecklist).Error; err != nil {
		cmd.Compensate(&vehicle)
		http.Error(w, "failed to save checklist: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"checklist": vehicle.OperationalChecklist,
		"readiness": BuildReadinessBreakdown(&vehicle),
	})
}
