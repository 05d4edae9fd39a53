package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CostEvidence is one uploaded proof-of-payment for a job-costing bucket.
type CostEvidence struct {
	URL        string    `json:"url"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedAt *JSONTime `json:"uploadedAt,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
}

// CostEvidenceMap maps cost-type key -> evidence, stored as JSONB on the invoice.
type CostEvidenceMap map[string]CostEvidence

// Scan implements sql.Scanner
func (m *CostEvidenceMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(CostEvidenceMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value implements driver.Valuer
func (m CostEvidenceMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(CostEvidenceMap))
	}
	return json.Marshal(m)
}

// Invoice is one investor invoice raised against a purchased vehicle.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID     uuid.UUID `gorm:"type:uuid;not null;index" json:"vehicleId"`
	InvoiceNumber string    `gorm:"size:50;index" json:"invoiceNumber,omitempty"`
	InvestorName  string    `gorm:"size:100" json:"investorName,omitempty"`
	Amount        float64   `json:"amount"`

	// Job costs are shared across all investor invoices for the vehicle, so
	// evidence may land on any one of them.
	CostInvoiceEvidence CostEvidenceMap `gorm:"type:jsonb;default:'{}'" json:"costInvoiceEvidence"`

	IssuedAt  *JSONTime      `json:"issuedAt,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// FindCostEvidence returns the first usable evidence for the given cost type
// across the whole invoice collection, or nil when none was uploaded yet.
// Any invoice is good enough: the underlying cost is shared, not per-investor.
func FindCostEvidence(costType string, invoices []Invoice) *CostEvidence {
	for i := range invoices {
		if ev, ok := invoices[i].CostInvoiceEvidence[costType]; ok && ev.URL != "" {
			return &ev
		}
	}
	return nil
}

// InvestorAllocation is one investor's share of a purchase.
type InvestorAllocation struct {
	InvestorID   string  `json:"investorId,omitempty"`
	InvestorName string  `json:"investorName"`
	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
}

// PurchaseOrder records how a converted vehicle's purchase was funded.
type PurchaseOrder struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"vehicleId"`
	OrderNumber  string         `gorm:"size:50" json:"orderNumber,omitempty"`
	TotalAmount  float64        `json:"totalAmount"`
	Allocations  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"allocations"`
	SignedDocURL string         `gorm:"size:500" json:"signedDocUrl,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	return
}

// InvestorAllocations decodes the JSONB allocation list.
func (po *PurchaseOrder) InvestorAllocations() ([]InvestorAllocation, error) {
	var out []InvestorAllocation
	if len(po.Allocations) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(po.Allocations, &out); err != nil {
		return nil, err
	}
	return out, nil
}
