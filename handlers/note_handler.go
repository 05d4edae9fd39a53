package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
	"p9e.in/cartrade/utils"
)

func requestActor(r *http.Request) (utils.Actor, *middleware.Claims, bool) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		return utils.Actor{}, nil, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return utils.Actor{}, nil, false
	}
	return utils.Actor{ID: userID, Role: models.Role(claims.Role)}, claims, true
}

type noteContentReq struct {
	Content string `json:"content"`
}

// AddNoteHandler appends a note to a vehicle without touching its status.
func AddNoteHandler(w http.ResponseWriter, r *http.Request) {
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

	var req noteContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "note content required", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	// Appending a note is expressed as a status update to the current status.
	engine := NewLifecycleEngine()
	if _, err := engine.UpdateStatus(vehicle.ID, vehicle.Status, req.Content, actor, claims.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var notes []models.Note
	config.DB.Where("vehicle_id = ?", vehicle.ID).Order("added_at ASC").Find(&notes)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"notes": notes})
}

// UpdateNoteHandler rewrites a note's content. Author only; admins get no
// bypass here.
func UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	noteID, err := uuid.Parse(vars["noteId"])
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	var req noteContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "note content required", http.StatusBadRequest)
		return
	}

	var note models.Note
	if err := config.DB.Where("id = ? AND vehicle_id = ?", noteID, vars["id"]).First(&note).Error; err != nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	if !utils.CanEditNote(actor, note) {
		http.Error(w, "only the author may edit a note", http.StatusForbidden)
		return
	}

	now := time.Now()
	note.Content = req.Content
	note.EditedAt = &now
	note.EditedByID = &actor.ID
	if err := config.DB.Save(&note).Error; err != nil {
		http.Error(w, "failed to update note: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// DeleteNoteHandler removes a note per policy: admins any, managers their
// own, investors none.
func DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := requestActor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	noteID, err := uuid.Parse(vars["noteId"])
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	var note models.Note
	if err := config.DB.Where("id = ? AND vehicle_id = ?", noteID, vars["id"]).First(&note).Error; err != nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	if !utils.CanDeleteNote(actor, note) {
		http.Error(w, "not allowed to delete this note", http.StatusForbidden)
		return
	}

	if err := config.DB.Delete(&note).Error; err != nil {
		http.Error(w, "failed to delete note: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "note deleted"})
}
