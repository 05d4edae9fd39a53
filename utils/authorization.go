package utils

import (
	"github.com/google/uuid"

	"p9e.in/cartrade/models"
)

// Actor identifies who is performing an action. Built from the JWT claims by
// the handler layer and passed in explicitly; the predicates below never
// reach into request context or any other ambient state.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// CanEditNote decides whether the actor may change a note's content.
//
// Author-only: even admins cannot rewrite what somebody else wrote. Admin
// privilege applies to deleting notes, not to editing them.
func CanEditNote(actor Actor, note models.Note) bool {
	return actor.ID != uuid.Nil && actor.ID == note.AddedByID
}

// CanDeleteNote decides whether the actor may remove a note.
//
//   - admin: any note
//   - manager: own notes only
//   - investor (and anything else): never
func CanDeleteNote(actor Actor, note models.Note) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return actor.ID != uuid.Nil && actor.ID == note.AddedByID
	default:
		return false
	}
}

// CanDeleteCostEvidence decides whether the actor may remove uploaded cost
// evidence. Stricter than notes: financial evidence carries audit weight, so
// only admins may remove it, regardless of who uploaded it.
func CanDeleteCostEvidence(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanEditVehicle decides whether the actor may change a vehicle's core fields.
// Managers can only shape a lead while it is still new; admins can correct a
// record at any stage.
func CanEditVehicle(role models.Role, status models.VehicleStatus) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return status == models.StatusNew
	default:
		return false
	}
}
