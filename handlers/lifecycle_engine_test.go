package handlers

import (
	"errors"
	"testing"

	"p9e.in/cartrade/models"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     models.VehicleStatus
		to       models.VehicleStatus
		expected bool
	}{
		{"new to contacted", models.StatusNew, models.StatusContacted, true},
		{"contacted to qualified", models.StatusContacted, models.StatusQualified, true},
		{"qualified to negotiation", models.StatusQualified, models.StatusNegotiation, true},
		{"negotiation to inspection", models.StatusNegotiation, models.StatusInspection, true},
		{"inspection to under_review", models.StatusInspection, models.StatusUnderReview, true},
		{"under_review to approved", models.StatusUnderReview, models.StatusApproved, true},
		{"approved to converted", models.StatusApproved, models.StatusConverted, true},
		{"converted to inventory", models.StatusConverted, models.StatusInventory, true},
		{"inventory to sale", models.StatusInventory, models.StatusSale, true},

		// consignment branches ahead of negotiation
		{"new to consignment", models.StatusNew, models.StatusConsignment, true},
		{"contacted to consignment", models.StatusContacted, models.StatusConsignment, true},
		{"qualified to consignment", models.StatusQualified, models.StatusConsignment, true},
		{"negotiation to consignment blocked", models.StatusNegotiation, models.StatusConsignment, false},

		// losses and cancellations
		{"negotiation to lost", models.StatusNegotiation, models.StatusLost, true},
		{"inventory to cancelled", models.StatusInventory, models.StatusCancelled, true},

		// skipping stages
		{"new to negotiation blocked", models.StatusNew, models.StatusNegotiation, false},
		{"new to sale blocked", models.StatusNew, models.StatusSale, false},
		{"negotiation to approved blocked", models.StatusNegotiation, models.StatusApproved, false},

		// terminal states have no exits
		{"sale to inventory blocked", models.StatusSale, models.StatusInventory, false},
		{"lost to new blocked", models.StatusLost, models.StatusNew, false},

		// re-asserting current status carries a note without a change
		{"same status always legal", models.StatusNegotiation, models.StatusNegotiation, true},
		{"same terminal status legal", models.StatusSale, models.StatusSale, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("ValidTransition(%q, %q) = %v, expected %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestCheckMarkReady(t *testing.T) {
	complete := checklistWithCompleted(6)

	t.Run("inventory at 100 passes", func(t *testing.T) {
		v := &models.Vehicle{Status: models.StatusInventory, OperationalChecklist: complete}
		if err := CheckMarkReady(v); err != nil {
			t.Errorf("CheckMarkReady() = %v, expected nil", err)
		}
	})

	t.Run("in_inventory at 100 passes", func(t *testing.T) {
		v := &models.Vehicle{Status: models.StatusInInventory, OperationalChecklist: complete}
		if err := CheckMarkReady(v); err != nil {
			t.Errorf("CheckMarkReady() = %v, expected nil", err)
		}
	})

	t.Run("consignment at 100 passes", func(t *testing.T) {
		v := &models.Vehicle{Status: models.StatusConsignment, OperationalChecklist: complete}
		if err := CheckMarkReady(v); err != nil {
			t.Errorf("CheckMarkReady() = %v, expected nil", err)
		}
	})

	t.Run("one item short fails with ErrNotReady", func(t *testing.T) {
		v := &models.Vehicle{Status: models.StatusInventory, OperationalChecklist: checklistWithCompleted(5)}
		err := CheckMarkReady(v)
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("CheckMarkReady() = %v, expected ErrNotReady", err)
		}
	})

	t.Run("unevidenced cost fails with ErrNotReady", func(t *testing.T) {
		v := &models.Vehicle{
			Status:               models.StatusInventory,
			OperationalChecklist: complete,
			JobCosting:           models.JobCosting{TransferCost: 500},
		}
		err := CheckMarkReady(v)
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("CheckMarkReady() = %v, expected ErrNotReady", err)
		}
	})

	t.Run("wrong stage fails even at 100", func(t *testing.T) {
		for _, status := range []models.VehicleStatus{models.StatusNew, models.StatusNegotiation, models.StatusApproved} {
			v := &models.Vehicle{Status: status, OperationalChecklist: complete}
			err := CheckMarkReady(v)
			if !errors.Is(err, ErrIllegalTransition) {
				t.Errorf("CheckMarkReady(status %q) = %v, expected ErrIllegalTransition", status, err)
			}
		}
	})
}

func TestNegotiationDocsCompletion(t *testing.T) {
	att := func(categories ...models.DocumentCategory) []models.Attachment {
		var out []models.Attachment
		for _, c := range categories {
			out = append(out, models.Attachment{Category: c, URL: "/uploads/x"})
		}
		return out
	}

	tests := []struct {
		name        string
		attachments []models.Attachment
		expected    int
	}{
		{"nothing uploaded", nil, 0},
		{"one of three", att(models.CategoryRegistrationCard), 33},
		{"two of three", att(models.CategoryRegistrationCard, models.CategoryCarPictures), 67},
		{
			"all three",
			att(models.CategoryRegistrationCard, models.CategoryCarPictures, models.CategoryOnlineHistoryCheck),
			100,
		},
		{
			"duplicates count once",
			att(models.CategoryCarPictures, models.CategoryCarPictures, models.CategoryCarPictures),
			33,
		},
		{
			"unrelated categories ignored",
			att(models.CategoryInspectionReport, models.CategoryConsignmentAgreement),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NegotiationDocsCompletion(tt.attachments); got != tt.expected {
				t.Errorf("NegotiationDocsCompletion() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMissingNegotiationCategories(t *testing.T) {
	attachments := []models.Attachment{
		{Category: models.CategoryCarPictures, URL: "/uploads/x"},
	}
	missing := MissingNegotiationCategories(attachments)
	if len(missing) != 2 {
		t.Fatalf("missing = %v, expected 2 entries", missing)
	}
	if missing[0] != models.CategoryRegistrationCard || missing[1] != models.CategoryOnlineHistoryCheck {
		t.Errorf("missing = %v, expected registrationCard then onlineHistoryCheck", missing)
	}
}
