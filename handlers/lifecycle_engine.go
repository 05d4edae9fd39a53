package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/models"
	"p9e.in/cartrade/utils"
)

// Guard violations. Handlers map these to 4xx responses; an illegal request
// always fails loudly, it is never clamped to a no-op.
var (
	ErrInvalidStatus       = errors.New("unknown vehicle status")
	ErrInvalidRole         = errors.New("role not allowed to perform this transition")
	ErrNotReady            = errors.New("vehicle is not ready for sale")
	ErrIncompleteDocuments = errors.New("negotiation documents incomplete")
	ErrTerminalStatus      = errors.New("vehicle is in a terminal status")
	ErrIllegalTransition   = errors.New("illegal status transition")
)

// lifecycleTransitions is the canonical table of legal moves. Admins bypass
// it (corrections happen), everyone else is held to it.
var lifecycleTransitions = map[models.VehicleStatus][]models.VehicleStatus{
	models.StatusNew:         {models.StatusContacted, models.StatusConsignment, models.StatusLost, models.StatusCancelled},
	models.StatusContacted:   {models.StatusQualified, models.StatusConsignment, models.StatusLost, models.StatusCancelled},
	models.StatusQualified:   {models.StatusNegotiation, models.StatusConsignment, models.StatusLost, models.StatusCancelled},
	models.StatusNegotiation: {models.StatusInspection, models.StatusLost, models.StatusCancelled},
	models.StatusInspection:  {models.StatusUnderReview, models.StatusLost, models.StatusCancelled},
	models.StatusUnderReview: {models.StatusApproved, models.StatusLost, models.StatusCancelled},
	models.StatusApproved:    {models.StatusConverted, models.StatusLost, models.StatusCancelled},
	models.StatusConverted:   {models.StatusInventory, models.StatusInInventory, models.StatusLost, models.StatusCancelled},
	models.StatusConsignment: {models.StatusInventory, models.StatusInInventory, models.StatusSale, models.StatusLost, models.StatusCancelled},
	models.StatusInventory:   {models.StatusSale, models.StatusLost, models.StatusCancelled},
	models.StatusInInventory: {models.StatusSale, models.StatusLost, models.StatusCancelled},
}

// ValidTransition reports whether from -> to is in the canonical table.
// Re-asserting the current status ("add a note without changing status") is
// always legal.
func ValidTransition(from, to models.VehicleStatus) bool {
	if from == to {
		return true
	}
	for _, next := range lifecycleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// readyStatuses are the stages from which a fully complete vehicle may enter
// the sales pipeline.
func isReadyStatus(s models.VehicleStatus) bool {
	return s == models.StatusInventory || s == models.StatusInInventory || s == models.StatusConsignment
}

// LifecycleEngine drives vehicle status transitions and their guards.
type LifecycleEngine struct {
	db *gorm.DB
}

// NewLifecycleEngine creates a lifecycle engine backed by the shared DB.
func NewLifecycleEngine() *LifecycleEngine {
	return &LifecycleEngine{db: config.DB}
}

// UpdateStatus moves a vehicle to newStatus, appending note (when non-empty)
// whether or not the status actually changes. Admins may force any move;
// other roles are held to the transition table.
func (le *LifecycleEngine) UpdateStatus(vehicleID uuid.UUID, newStatus models.VehicleStatus, note string, actor utils.Actor, actorName string) (*models.Vehicle, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	var vehicle models.Vehicle
	if err := le.db.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	if actor.Role != models.RoleAdmin {
		if vehicle.Status.IsTerminal() && newStatus != vehicle.Status {
			return nil, fmt.Errorf("%w: %s", ErrTerminalStatus, vehicle.Status)
		}
		if !ValidTransition(vehicle.Status, newStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, vehicle.Status, newStatus)
		}
	}

	previous := vehicle.Status

	tx := le.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if newStatus != previous {
		vehicle.Status = newStatus
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Update("status", newStatus).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to update status: %w", err)
		}

		transition := models.StatusTransition{
			VehicleID:  vehicle.ID,
			FromStatus: previous,
			ToStatus:   newStatus,
			ActorID:    actor.ID,
			ActorName:  actorName,
			ActorRole:  string(actor.Role),
			Comment:    note,
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(&transition).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to record transition: %w", err)
		}
	}

	if note != "" {
		n := models.Note{
			VehicleID:   vehicle.ID,
			Content:     note,
			AddedByID:   actor.ID,
			AddedByName: actorName,
		}
		if err := tx.Create(&n).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to append note: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if newStatus != previous {
		log.Printf("vehicle %s: %s -> %s (by %s)", vehicle.ID, previous, newStatus, actorName)
	}
	return &vehicle, nil
}

// MarkReady moves a vehicle from the acquisition pipeline into the sales
// pipeline. Legal only when the record sits in inventory or consignment AND
// the readiness score is exactly 100; anything less fails with ErrNotReady.
func (le *LifecycleEngine) MarkReady(vehicleID uuid.UUID, actor utils.Actor, actorName string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := le.db.Preload("Invoices").First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	if err := CheckMarkReady(&vehicle); err != nil {
		return nil, err
	}

	previous := vehicle.Status
	vehicle.Status = models.StatusSale

	tx := le.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Update("status", models.StatusSale).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	transition := models.StatusTransition{
		VehicleID:  vehicle.ID,
		FromStatus: previous,
		ToStatus:   models.StatusSale,
		ActorID:    actor.ID,
		ActorName:  actorName,
		ActorRole:  string(actor.Role),
		Comment:    "marked ready for sale",
	}
	if err := tx.Create(&transition).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record transition: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("vehicle %s: marked ready, %s -> %s", vehicle.ID, previous, models.StatusSale)
	return &vehicle, nil
}

// CheckMarkReady evaluates the mark-ready guard without touching the store.
// Pure over the loaded snapshot, so the frontend can probe it freely.
func CheckMarkReady(v *models.Vehicle) error {
	if !isReadyStatus(v.Status) {
		return fmt.Errorf("%w: cannot mark ready from %s", ErrIllegalTransition, v.Status)
	}
	if score := ReadinessScore(v); score != 100 {
		return fmt.Errorf("%w: score %d", ErrNotReady, score)
	}
	return nil
}

// MoveToInspection advances a negotiating lead once the negotiation document
// checklist (registration card, car pictures, online history check) is fully
// satisfied.
func (le *LifecycleEngine) MoveToInspection(vehicleID uuid.UUID, actor utils.Actor, actorName string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := le.db.Preload("Attachments").First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	if vehicle.Status != models.StatusNegotiation {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, vehicle.Status, models.StatusInspection)
	}
	if NegotiationDocsCompletion(vehicle.Attachments) != 100 {
		missing := MissingNegotiationCategories(vehicle.Attachments)
		return nil, fmt.Errorf("%w: missing %v", ErrIncompleteDocuments, missing)
	}

	return le.UpdateStatus(vehicleID, models.StatusInspection, "", actor, actorName)
}

// NegotiationDocsCompletion is the percentage of negotiation document
// categories with at least one upload.
func NegotiationDocsCompletion(attachments []models.Attachment) int {
	present := models.CategoriesPresent(attachments, models.NegotiationCategories)
	done := 0
	for _, ok := range present {
		if ok {
			done++
		}
	}
	return int(float64(done)/float64(len(models.NegotiationCategories))*100 + 0.5)
}

// MissingNegotiationCategories lists the negotiation categories still empty.
func MissingNegotiationCategories(attachments []models.Attachment) []models.DocumentCategory {
	present := models.CategoriesPresent(attachments, models.NegotiationCategories)
	var missing []models.DocumentCategory
	for _, c := range models.NegotiationCategories {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
