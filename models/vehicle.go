package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// VehicleStatus defines where a record sits in the acquisition/sales pipeline
type VehicleStatus string

const (
	StatusNew         VehicleStatus = "new"
	StatusContacted   VehicleStatus = "contacted"
	StatusQualified   VehicleStatus = "qualified"
	StatusNegotiation VehicleStatus = "negotiation"
	StatusInspection  VehicleStatus = "inspection"
	StatusUnderReview VehicleStatus = "under_review"
	StatusApproved    VehicleStatus = "approved"
	StatusConverted   VehicleStatus = "converted"
	StatusConsignment VehicleStatus = "consignment"
	StatusInventory   VehicleStatus = "inventory"
	StatusInInventory VehicleStatus = "in_inventory"
	StatusSale        VehicleStatus = "sale"
	StatusLost        VehicleStatus = "lost"
	StatusCancelled   VehicleStatus = "cancelled"
)

// AllStatuses lists every valid status; anything else is rejected at the boundary.
var AllStatuses = []VehicleStatus{
	StatusNew, StatusContacted, StatusQualified, StatusNegotiation,
	StatusInspection, StatusUnderReview, StatusApproved, StatusConverted,
	StatusConsignment, StatusInventory, StatusInInventory,
	StatusSale, StatusLost, StatusCancelled,
}

// IsValid reports whether s is a known pipeline status.
func (s VehicleStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the record has left the pipeline for good.
func (s VehicleStatus) IsTerminal() bool {
	return s == StatusSale || s == StatusLost || s == StatusCancelled
}

// ChecklistTasks are the six fixed operational tasks every vehicle carries.
// Missing keys in stored JSON mean "not completed".
var ChecklistTasks = []string{
	"detailing", "photoshoot", "photoshootEdited",
	"metaAds", "onlineAds", "instagram",
}

// ChecklistItem is one operational task entry.
type ChecklistItem struct {
	Completed   bool      `json:"completed"`
	CompletedBy string    `json:"completedBy,omitempty"`
	CompletedAt *JSONTime `json:"completedAt,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// UnmarshalJSON tolerates historical payloads where completed arrived as the
// string "true"/"false" instead of a boolean. The ambiguity is resolved once
// here so every read site sees a strict bool.
func (ci *ChecklistItem) UnmarshalJSON(b []byte) error {
	type raw struct {
		Completed   json.RawMessage `json:"completed"`
		CompletedBy string          `json:"completedBy,omitempty"`
		CompletedAt *JSONTime       `json:"completedAt,omitempty"`
		Notes       string          `json:"notes,omitempty"`
	}
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	ci.CompletedBy = r.CompletedBy
	ci.CompletedAt = r.CompletedAt
	ci.Notes = r.Notes
	ci.Completed = false
	if len(r.Completed) > 0 {
		var asBool bool
		if err := json.Unmarshal(r.Completed, &asBool); err == nil {
			ci.Completed = asBool
		} else {
			var asString string
			if err := json.Unmarshal(r.Completed, &asString); err == nil {
				ci.Completed = asString == "true"
			}
		}
	}
	return nil
}

// OperationalChecklist maps task key -> entry, stored as JSONB.
type OperationalChecklist map[string]ChecklistItem

// Scan implements sql.Scanner
func (oc *OperationalChecklist) Scan(value interface{}) error {
	if value == nil {
		*oc = make(OperationalChecklist)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, oc)
}

// Value implements driver.Valuer
func (oc OperationalChecklist) Value() (driver.Value, error) {
	if oc == nil {
		return json.Marshal(make(OperationalChecklist))
	}
	return json.Marshal(oc)
}

// CompletedCount counts completed entries over the six fixed tasks only;
// stray keys in stored JSON do not inflate the score.
func (oc OperationalChecklist) CompletedCount() int {
	count := 0
	for _, task := range ChecklistTasks {
		if item, ok := oc[task]; ok && item.Completed {
			count++
		}
	}
	return count
}

// JobCosting holds the five operational cost buckets. A value of zero (or
// less) means the cost does not apply and requires no invoice evidence.
type JobCosting struct {
	TransferCost    float64 `json:"transferCost"`
	DetailingCost   float64 `json:"detailingCost"`
	AgentCommission float64 `json:"agentCommission"`
	RecoveryCost    float64 `json:"recoveryCost"`
	Others          float64 `json:"others"`
}

// CostTypes enumerates the job-costing keys in display order.
var CostTypes = []string{
	"transferCost", "detailingCost", "agentCommission", "recoveryCost", "others",
}

// Amount returns the cost recorded under the given key.
func (jc JobCosting) Amount(costType string) float64 {
	switch costType {
	case "transferCost":
		return jc.TransferCost
	case "detailingCost":
		return jc.DetailingCost
	case "agentCommission":
		return jc.AgentCommission
	case "recoveryCost":
		return jc.RecoveryCost
	case "others":
		return jc.Others
	}
	return 0
}

// Scan implements sql.Scanner
func (jc *JobCosting) Scan(value interface{}) error {
	if value == nil {
		*jc = JobCosting{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, jc)
}

// Value implements driver.Valuer
func (jc JobCosting) Value() (driver.Value, error) {
	return json.Marshal(jc)
}

// OwnerInfo is the structured owner record captured during consignment intake.
type OwnerInfo struct {
	Name               string `json:"name,omitempty"`
	ContactNumber      string `json:"contactNumber,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address,omitempty"`
	EmiratesIDPassport string `json:"emiratesIdOrPassport,omitempty"`
}

// Scan implements sql.Scanner
func (oi *OwnerInfo) Scan(value interface{}) error {
	if value == nil {
		*oi = OwnerInfo{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, oi)
}

// Value implements driver.Valuer
func (oi OwnerInfo) Value() (driver.Value, error) {
	return json.Marshal(oi)
}

// ContactInfo is the legacy lead-capture contact block. Kept alongside
// OwnerInfo because older records only filled this one.
type ContactInfo struct {
	Name               string `json:"name,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address,omitempty"`
	EmiratesIDPassport string `json:"emiratesIdOrPassport,omitempty"`
}

// Scan implements sql.Scanner
func (ci *ContactInfo) Scan(value interface{}) error {
	if value == nil {
		*ci = ContactInfo{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, ci)
}

// Value implements driver.Valuer
func (ci ContactInfo) Value() (driver.Value, error) {
	return json.Marshal(ci)
}

// Vehicle is a lead while it is being negotiated and a stocked vehicle once
// converted or consigned; the same row carries it through the whole pipeline.
type Vehicle struct {
	ID     uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Status VehicleStatus `gorm:"size:30;not null;default:'new';index" json:"status"`

	Make        string  `gorm:"size:100;not null" json:"make"`
	Model       string  `gorm:"size:100;not null" json:"model"`
	Year        int     `json:"year"`
	Mileage     int64   `json:"mileage"`
	Trim        string  `gorm:"size:100" json:"trim,omitempty"`
	Color       string  `gorm:"size:50" json:"color,omitempty"`
	Region      string  `gorm:"size:100" json:"region,omitempty"`
	VIN         string  `gorm:"size:50;index" json:"vin,omitempty"`
	AskingPrice float64 `json:"askingPrice"`

	PurchasePrice   float64 `json:"purchasePrice"`
	MinSellingPrice float64 `json:"minSellingPrice"`
	MaxSellingPrice float64 `json:"maxSellingPrice"`

	JobCosting           JobCosting           `gorm:"type:jsonb;default:'{}'" json:"jobCosting"`
	OperationalChecklist OperationalChecklist `gorm:"type:jsonb;default:'{}'" json:"operationalChecklist"`
	OwnerInfo            OwnerInfo            `gorm:"type:jsonb;default:'{}'" json:"ownerInfo"`
	ContactInfo          ContactInfo          `gorm:"type:jsonb;default:'{}'" json:"contactInfo"`

	CarPictureURLs pq.StringArray `gorm:"type:text[]" json:"carPictureUrls,omitempty"`

	Invoices      []Invoice      `gorm:"foreignKey:VehicleID" json:"invoices,omitempty"`
	Attachments   []Attachment   `gorm:"foreignKey:VehicleID" json:"attachments,omitempty"`
	Notes         []Note         `gorm:"foreignKey:VehicleID" json:"notes,omitempty"`
	PurchaseOrder *PurchaseOrder `gorm:"foreignKey:VehicleID" json:"purchaseOrder,omitempty"`

	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"createdBy"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AddCarPicture records an uploaded gallery URL, skipping duplicates.
func (v *Vehicle) AddCarPicture(url string) {
	for _, existing := range v.CarPictureURLs {
		if existing == url {
			return
		}
	}
	v.CarPictureURLs = append(v.CarPictureURLs, url)
}

// RemoveCarPicture drops url from the gallery, if present.
func (v *Vehicle) RemoveCarPicture(url string) {
	kept := v.CarPictureURLs[:0]
	for _, existing := range v.CarPictureURLs {
		if existing != url {
			kept = append(kept, existing)
		}
	}
	v.CarPictureURLs = kept
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = StatusNew
	}
	return
}

// StatusTransition is the audit row written alongside every status change.
type StatusTransition struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"vehicleId"`
	FromStatus VehicleStatus `gorm:"size:30;not null" json:"fromStatus"`
	ToStatus   VehicleStatus `gorm:"size:30;not null" json:"toStatus"`
	ActorID    uuid.UUID     `gorm:"type:uuid;not null" json:"actorId"`
	ActorName  string        `gorm:"size:100" json:"actorName"`
	ActorRole  string        `gorm:"size:30" json:"actorRole"`
	Comment    string        `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}
