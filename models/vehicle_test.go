package models

import (
	"encoding/json"
	"testing"
)

func TestChecklistItemUnmarshalNormalizesCompleted(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected bool
	}{
		{"boolean true", `{"completed": true}`, true},
		{"boolean false", `{"completed": false}`, false},
		{"string true", `{"completed": "true"}`, true},
		{"string false", `{"completed": "false"}`, false},
		{"missing field", `{}`, false},
		{"null", `{"completed": null}`, false},
		{"unrelated string", `{"completed": "yes"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item ChecklistItem
			if err := json.Unmarshal([]byte(tt.payload), &item); err != nil {
				t.Fatalf("Unmarshal(%q) = %v", tt.payload, err)
			}
			if item.Completed != tt.expected {
				t.Errorf("Unmarshal(%q).Completed = %v, expected %v", tt.payload, item.Completed, tt.expected)
			}
		})
	}
}

func TestChecklistItemUnmarshalKeepsOtherFields(t *testing.T) {
	payload := `{"completed": "true", "completedBy": "Sara", "notes": "studio"}`
	var item ChecklistItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if !item.Completed || item.CompletedBy != "Sara" || item.Notes != "studio" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestOperationalChecklistCompletedCount(t *testing.T) {
	oc := OperationalChecklist{
		"detailing":  {Completed: true},
		"photoshoot": {Completed: false},
		"instagram":  {Completed: true},
		// stray keys must not inflate the count
		"tiktok": {Completed: true},
	}
	if got := oc.CompletedCount(); got != 2 {
		t.Errorf("CompletedCount() = %d, expected 2", got)
	}

	var empty OperationalChecklist
	if got := empty.CompletedCount(); got != 0 {
		t.Errorf("CompletedCount() on nil = %d, expected 0", got)
	}
}

func TestFindCostEvidence(t *testing.T) {
	first := CostEvidence{URL: "/uploads/evidence/a.pdf", FileName: "a.pdf"}
	second := CostEvidence{URL: "/uploads/evidence/b.pdf", FileName: "b.pdf"}

	invoices := []Invoice{
		{CostInvoiceEvidence: CostEvidenceMap{"detailingCost": {FileName: "no-url.pdf"}}},
		{CostInvoiceEvidence: CostEvidenceMap{"transferCost": first}},
		{CostInvoiceEvidence: CostEvidenceMap{"transferCost": second}},
	}

	t.Run("first usable evidence wins", func(t *testing.T) {
		got := FindCostEvidence("transferCost", invoices)
		if got == nil || got.FileName != "a.pdf" {
			t.Errorf("FindCostEvidence() = %+v, expected a.pdf", got)
		}
	})

	t.Run("evidence without url is skipped", func(t *testing.T) {
		if got := FindCostEvidence("detailingCost", invoices); got != nil {
			t.Errorf("FindCostEvidence() = %+v, expected nil for url-less evidence", got)
		}
	})

	t.Run("unknown cost type", func(t *testing.T) {
		if got := FindCostEvidence("recoveryCost", invoices); got != nil {
			t.Errorf("FindCostEvidence() = %+v, expected nil", got)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		if got := FindCostEvidence("transferCost", nil); got != nil {
			t.Errorf("FindCostEvidence() = %+v, expected nil", got)
		}
	})
}

func TestCarPictureGallery(t *testing.T) {
	var v Vehicle

	v.AddCarPicture("/uploads/documents/front.jpg")
	v.AddCarPicture("/uploads/documents/rear.jpg")
	v.AddCarPicture("/uploads/documents/front.jpg") // duplicate
	if len(v.CarPictureURLs) != 2 {
		t.Fatalf("gallery = %v, expected 2 distinct urls", v.CarPictureURLs)
	}

	v.RemoveCarPicture("/uploads/documents/front.jpg")
	if len(v.CarPictureURLs) != 1 || v.CarPictureURLs[0] != "/uploads/documents/rear.jpg" {
		t.Errorf("gallery after removal = %v, expected only rear.jpg", v.CarPictureURLs)
	}

	v.RemoveCarPicture("/uploads/documents/missing.jpg")
	if len(v.CarPictureURLs) != 1 {
		t.Errorf("removing an absent url changed the gallery: %v", v.CarPictureURLs)
	}
}

func TestVehicleStatusValidity(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if VehicleStatus("").IsValid() {
		t.Error("empty status must be invalid")
	}
	if VehicleStatus("pending").IsValid() {
		t.Error("unknown status must be invalid")
	}

	terminals := map[VehicleStatus]bool{StatusSale: true, StatusLost: true, StatusCancelled: true}
	for _, s := range AllStatuses {
		if got := s.IsTerminal(); got != terminals[s] {
			t.Errorf("IsTerminal(%q) = %v, expected %v", s, got, terminals[s])
		}
	}
}
