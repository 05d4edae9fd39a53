package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentCategory classifies vehicle attachments. The set is closed: upload
// handlers reject anything not listed here.
type DocumentCategory string

const (
	CategoryRegistrationCard     DocumentCategory = "registrationCard"
	CategoryCarPictures          DocumentCategory = "carPictures"
	CategoryOnlineHistoryCheck   DocumentCategory = "onlineHistoryCheck"
	CategoryInspectionReport     DocumentCategory = "inspectionReport"
	CategoryConsignmentAgreement DocumentCategory = "consignmentAgreement"
)

// AllCategories lists every accepted attachment category.
var AllCategories = []DocumentCategory{
	CategoryRegistrationCard,
	CategoryCarPictures,
	CategoryOnlineHistoryCheck,
	CategoryInspectionReport,
	CategoryConsignmentAgreement,
}

// IsValid reports whether c is a known category.
func (c DocumentCategory) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// AllowsMultiple reports whether more than one file may be uploaded under the
// category in a single request. Car pictures and signed agreement scans come
// in batches; everything else is a single document.
func (c DocumentCategory) AllowsMultiple() bool {
	return c == CategoryCarPictures || c == CategoryConsignmentAgreement
}

// NegotiationCategories are the documents that must all be present before a
// lead may move from negotiation to inspection.
var NegotiationCategories = []DocumentCategory{
	CategoryRegistrationCard,
	CategoryCarPictures,
	CategoryOnlineHistoryCheck,
}

// ConsignmentCategories are the documents collected on the consignment path.
var ConsignmentCategories = []DocumentCategory{
	CategoryInspectionReport,
	CategoryConsignmentAgreement,
}

// Attachment is one uploaded document tied to a vehicle.
type Attachment struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID uuid.UUID        `gorm:"type:uuid;not null;index" json:"vehicleId"`
	Category  DocumentCategory `gorm:"size:50;not null;index" json:"category"`
	FileName  string           `gorm:"size:255;not null" json:"fileName"`
	FileType  string           `gorm:"size:100" json:"fileType"`
	FileSize  int64            `json:"fileSize"`
	URL       string           `gorm:"size:500;not null" json:"url"`

	UploadedByID uuid.UUID      `gorm:"type:uuid" json:"uploadedById"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// CategoriesPresent reports which of the wanted categories have at least one
// uploaded attachment.
func CategoriesPresent(attachments []Attachment, wanted []DocumentCategory) map[DocumentCategory]bool {
	present := make(map[DocumentCategory]bool, len(wanted))
	for _, a := range attachments {
		present[a.Category] = true
	}
	out := make(map[DocumentCategory]bool, len(wanted))
	for _, c := range wanted {
		out[c] = present[c]
	}
	return out
}
