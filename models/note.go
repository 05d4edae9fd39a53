package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a free-text remark on a vehicle record. Notes are appended by
// status updates and by direct note endpoints; edit/delete rights are decided
// in utils/authorization.go, never here.
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index" json:"vehicleId"`
	Content   string    `gorm:"type:text;not null" json:"content"`

	AddedByID   uuid.UUID `gorm:"type:uuid;not null" json:"addedById"`
	AddedByName string    `gorm:"size:100" json:"addedByName"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"addedAt"`

	EditedByID *uuid.UUID `gorm:"type:uuid" json:"editedById,omitempty"`
	EditedAt   *time.Time `json:"editedAt,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
