package utils

import (
	"testing"

	"github.com/google/uuid"

	"p9e.in/cartrade/models"
)

func TestCanEditNote(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	note := models.Note{AddedByID: author}

	tests := []struct {
		name     string
		actor    Actor
		expected bool
	}{
		{"author can edit", Actor{ID: author, Role: models.RoleManager}, true},
		{"author admin can edit own", Actor{ID: author, Role: models.RoleAdmin}, true},
		{"other manager cannot edit", Actor{ID: other, Role: models.RoleManager}, false},
		{"admin cannot edit others note", Actor{ID: other, Role: models.RoleAdmin}, false},
		{"investor cannot edit others note", Actor{ID: other, Role: models.RoleInvestor}, false},
		{"nil actor id never edits", Actor{Role: models.RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditNote(tt.actor, note); got != tt.expected {
				t.Errorf("CanEditNote(%v) = %v, expected %v", tt.actor, got, tt.expected)
			}
		})
	}
}

func TestCanDeleteNote(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	note := models.Note{AddedByID: author}

	tests := []struct {
		name     string
		actor    Actor
		expected bool
	}{
		{"admin can delete any note", Actor{ID: other, Role: models.RoleAdmin}, true},
		{"admin can delete own note", Actor{ID: author, Role: models.RoleAdmin}, true},
		{"manager can delete own note", Actor{ID: author, Role: models.RoleManager}, true},
		{"manager cannot delete others note", Actor{ID: other, Role: models.RoleManager}, false},
		{"investor cannot delete own note", Actor{ID: author, Role: models.RoleInvestor}, false},
		{"investor cannot delete any note", Actor{ID: other, Role: models.RoleInvestor}, false},
		{"unknown role cannot delete", Actor{ID: other, Role: "viewer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanDeleteNote(tt.actor, note); got != tt.expected {
				t.Errorf("CanDeleteNote(%v) = %v, expected %v", tt.actor, got, tt.expected)
			}
		})
	}
}

func TestCanDeleteCostEvidence(t *testing.T) {
	if !CanDeleteCostEvidence(Actor{ID: uuid.New(), Role: models.RoleAdmin}) {
		t.Error("admin should be able to delete cost evidence")
	}
	if CanDeleteCostEvidence(Actor{ID: uuid.New(), Role: models.RoleManager}) {
		t.Error("manager should not be able to delete cost evidence")
	}
	if CanDeleteCostEvidence(Actor{ID: uuid.New(), Role: models.RoleInvestor}) {
		t.Error("investor should not be able to delete cost evidence")
	}
}

func TestCanEditVehicle(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		status   models.VehicleStatus
		expected bool
	}{
		{"admin edits new", models.RoleAdmin, models.StatusNew, true},
		{"admin edits inventory", models.RoleAdmin, models.StatusInventory, true},
		{"admin edits terminal", models.RoleAdmin, models.StatusSale, true},
		{"manager edits new", models.RoleManager, models.StatusNew, true},
		{"manager cannot edit contacted", models.RoleManager, models.StatusContacted, false},
		{"manager cannot edit inventory", models.RoleManager, models.StatusInventory, false},
		{"investor cannot edit new", models.RoleInvestor, models.StatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditVehicle(tt.role, tt.status); got != tt.expected {
				t.Errorf("CanEditVehicle(%q, %q) = %v, expected %v", tt.role, tt.status, got, tt.expected)
			}
		})
	}
}
