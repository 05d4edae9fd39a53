package handlers

import (
	"errors"
	"strings"
	"testing"

	"p9e.in/cartrade/models"
)

func TestMissingOwnerFields(t *testing.T) {
	tests := []struct {
		name     string
		vehicle  models.Vehicle
		expected []string
	}{
		{
			"all present in owner info",
			models.Vehicle{OwnerInfo: models.OwnerInfo{
				Address: "Al Wasl Rd", EmiratesIDPassport: "784-1234", ContactNumber: "0501234567",
			}},
			nil,
		},
		{
			"legacy contact info fills the gaps",
			models.Vehicle{ContactInfo: models.ContactInfo{
				Address: "Jumeirah 1", EmiratesIDPassport: "P1234567", Phone: "0559876543",
			}},
			nil,
		},
		{
			"only address missing",
			models.Vehicle{OwnerInfo: models.OwnerInfo{
				EmiratesIDPassport: "784-1234", ContactNumber: "0501234567",
			}},
			[]string{"ownerAddress"},
		},
		{
			"everything missing keeps fixed order",
			models.Vehicle{},
			[]string{"ownerAddress", "ownerEmiratesIdOrPassport", "ownerContact"},
		},
		{
			"mixed sources",
			models.Vehicle{
				OwnerInfo:   models.OwnerInfo{Address: "Al Wasl Rd"},
				ContactInfo: models.ContactInfo{Phone: "0501111111"},
			},
			[]string{"ownerEmiratesIdOrPassport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingOwnerFields(&tt.vehicle)
			if len(got) != len(tt.expected) {
				t.Fatalf("MissingOwnerFields() = %v, expected keys %v", got, tt.expected)
			}
			for i := range got {
				if got[i].Key != tt.expected[i] {
					t.Errorf("missing[%d].Key = %q, expected %q", i, got[i].Key, tt.expected[i])
				}
				if got[i].Label == "" {
					t.Errorf("missing[%d] has no display label", i)
				}
			}
		})
	}
}

func TestBuildAgreementPayload(t *testing.T) {
	base := models.Vehicle{
		Make:          "Nissan",
		Model:         "Patrol",
		Year:          2021,
		PurchasePrice: 145000,
		OwnerInfo: models.OwnerInfo{
			Name:               "Khalid",
			Address:            "Al Wasl Rd",
			EmiratesIDPassport: "784-1234",
			ContactNumber:      "0501234567",
		},
	}

	t.Run("defaults", func(t *testing.T) {
		p, err := BuildAgreementPayload(&base, AgreementOverrides{})
		if err != nil {
			t.Fatalf("BuildAgreementPayload() = %v", err)
		}
		if p.AgreedAmount != 145000 {
			t.Errorf("agreed amount = %v, expected purchase price 145000", p.AgreedAmount)
		}
		if p.Duration != "30-45 days" {
			t.Errorf("duration = %q, expected default \"30-45 days\"", p.Duration)
		}
		if p.OwnerAddress != "Al Wasl Rd" || p.OwnerContact != "0501234567" {
			t.Errorf("owner fields not taken from record: %+v", p)
		}
	})

	t.Run("overrides win", func(t *testing.T) {
		amount := 150000.0
		p, err := BuildAgreementPayload(&base, AgreementOverrides{
			AgreedAmount: &amount,
			Duration:     "60 days",
			OwnerAddress: "Marina Walk",
		})
		if err != nil {
			t.Fatalf("BuildAgreementPayload() = %v", err)
		}
		if p.AgreedAmount != 150000 {
			t.Errorf("agreed amount = %v, expected override 150000", p.AgreedAmount)
		}
		if p.Duration != "60 days" {
			t.Errorf("duration = %q, expected \"60 days\"", p.Duration)
		}
		if p.OwnerAddress != "Marina Walk" {
			t.Errorf("address = %q, expected override", p.OwnerAddress)
		}
	})

	t.Run("zero agreed amount override is respected", func(t *testing.T) {
		zero := 0.0
		p, err := BuildAgreementPayload(&base, AgreementOverrides{AgreedAmount: &zero})
		if err != nil {
			t.Fatalf("BuildAgreementPayload() = %v", err)
		}
		if p.AgreedAmount != 0 {
			t.Errorf("agreed amount = %v, expected explicit 0", p.AgreedAmount)
		}
	})

	t.Run("missing required field fails", func(t *testing.T) {
		v := models.Vehicle{Make: "Nissan", Model: "Patrol", PurchasePrice: 145000}
		_, err := BuildAgreementPayload(&v, AgreementOverrides{})
		if !errors.Is(err, ErrMissingOwnerField) {
			t.Fatalf("BuildAgreementPayload() = %v, expected ErrMissingOwnerField", err)
		}
		if !strings.Contains(err.Error(), "ownerAddress") {
			t.Errorf("error %q does not name the first missing field", err)
		}
	})

	t.Run("override supplies missing field", func(t *testing.T) {
		v := models.Vehicle{
			Make: "Nissan", Model: "Patrol", PurchasePrice: 145000,
			OwnerInfo: models.OwnerInfo{EmiratesIDPassport: "784-1234", ContactNumber: "0501234567"},
		}
		p, err := BuildAgreementPayload(&v, AgreementOverrides{OwnerAddress: "Marina Walk"})
		if err != nil {
			t.Fatalf("BuildAgreementPayload() = %v", err)
		}
		if p.OwnerAddress != "Marina Walk" {
			t.Errorf("address = %q, expected supplied override", p.OwnerAddress)
		}
	})

	t.Run("unknown duration rejected", func(t *testing.T) {
		_, err := BuildAgreementPayload(&base, AgreementOverrides{Duration: "90 days"})
		if err == nil {
			t.Fatal("BuildAgreementPayload accepted an unknown duration")
		}
	})
}

func TestDecodeAgreementOverrides(t *testing.T) {
	t.Run("empty body means defaults", func(t *testing.T) {
		o, err := decodeAgreementOverrides(strings.NewReader(""))
		if err != nil {
			t.Fatalf("decodeAgreementOverrides() = %v", err)
		}
		if o.AgreedAmount != nil || o.Duration != "" {
			t.Errorf("empty body produced non-zero overrides: %+v", o)
		}
	})

	t.Run("valid body decodes", func(t *testing.T) {
		o, err := decodeAgreementOverrides(strings.NewReader(`{"agreedAmount": 150000, "duration": "60 days"}`))
		if err != nil {
			t.Fatalf("decodeAgreementOverrides() = %v", err)
		}
		if o.AgreedAmount == nil || *o.AgreedAmount != 150000 {
			t.Errorf("agreedAmount = %v, expected 150000", o.AgreedAmount)
		}
		if o.Duration != "60 days" {
			t.Errorf("duration = %q, expected \"60 days\"", o.Duration)
		}
	})

	t.Run("malformed body is an error, not defaults", func(t *testing.T) {
		_, err := decodeAgreementOverrides(strings.NewReader(`{"agreedAmount": 15oooo}`))
		if err == nil {
			t.Fatal("decodeAgreementOverrides swallowed a malformed body")
		}
	})

	t.Run("wrong value type is an error", func(t *testing.T) {
		_, err := decodeAgreementOverrides(strings.NewReader(`{"agreedAmount": "expensive"}`))
		if err == nil {
			t.Fatal("decodeAgreementOverrides swallowed a mistyped override")
		}
	})
}
