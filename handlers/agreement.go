package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
)

// ErrMissingOwnerField blocks agreement generation when a required owner
// field is absent from the record and not supplied in the request.
var ErrMissingOwnerField = errors.New("required owner field missing")

// Agreement durations the frontend may pick from. The first is the default.
var AgreementDurations = []string{"30-45 days", "30 days", "45 days", "60 days"}

// OwnerField identifies one required owner detail with its display label.
type OwnerField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// requiredOwnerFields is evaluated in this fixed order.
var requiredOwnerFields = []OwnerField{
	{Key: "ownerAddress", Label: "Owner Address"},
	{Key: "ownerEmiratesIdOrPassport", Label: "Emirates ID / Passport"},
	{Key: "ownerContact", Label: "Contact Number"},
}

// ownerFieldValue resolves one owner field, preferring the structured owner
// record and falling back to the legacy contact block.
func ownerFieldValue(v *models.Vehicle, key string) string {
	switch key {
	case "ownerAddress":
		if v.OwnerInfo.Address != "" {
			return v.OwnerInfo.Address
		}
		return v.ContactInfo.Address
	case "ownerEmiratesIdOrPassport":
		if v.OwnerInfo.EmiratesIDPassport != "" {
			return v.OwnerInfo.EmiratesIDPassport
		}
		return v.ContactInfo.EmiratesIDPassport
	case "ownerContact":
		if v.OwnerInfo.ContactNumber != "" {
			return v.OwnerInfo.ContactNumber
		}
		return v.ContactInfo.Phone
	}
	return ""
}

// MissingOwnerFields returns, in fixed order, the owner fields neither the
// owner record nor the legacy contact record supplies. Empty result means the
// agreement is generable without further input.
func MissingOwnerFields(v *models.Vehicle) []OwnerField {
	var missing []OwnerField
	for _, f := range requiredOwnerFields {
		if ownerFieldValue(v, f.Key) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// AgreementOverrides are the caller-supplied values for agreement generation.
type AgreementOverrides struct {
	OwnerAddress              string   `json:"ownerAddress,omitempty"`
	OwnerContact              string   `json:"ownerContact,omitempty"`
	OwnerEmiratesIDOrPassport string   `json:"ownerEmiratesIdOrPassport,omitempty"`
	AgreedAmount              *float64 `json:"agreedAmount,omitempty"`
	Duration                  string   `json:"duration,omitempty"`
}

// AgreementPayload is the data fed to the agreement renderer.
type AgreementPayload struct {
	VehicleID                 uuid.UUID `json:"vehicleId"`
	Make                      string    `json:"make"`
	Model                     string    `json:"model"`
	Year                      int       `json:"year"`
	VIN                       string    `json:"vin,omitempty"`
	OwnerName                 string    `json:"ownerName,omitempty"`
	OwnerAddress              string    `json:"ownerAddress"`
	OwnerContact              string    `json:"ownerContact"`
	OwnerEmiratesIDOrPassport string    `json:"ownerEmiratesIdOrPassport"`
	AgreedAmount              float64   `json:"agreedAmount"`
	Duration                  string    `json:"duration"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

// BuildAgreementPayload assembles the generation payload. Defaults: agreed
// amount falls back to the recorded purchase price, duration to the first
// entry of AgreementDurations, owner fields to the record's values. Genuinely
// missing required fields are never invented; assembly fails instead.
func BuildAgreementPayload(v *models.Vehicle, o AgreementOverrides) (AgreementPayload, error) {
	p := AgreementPayload{
		VehicleID:   v.ID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		VIN:         v.VIN,
		OwnerName:   v.OwnerInfo.Name,
		GeneratedAt: time.Now(),
	}
	if p.OwnerName == "" {
		p.OwnerName = v.ContactInfo.Name
	}

	p.OwnerAddress = o.OwnerAddress
	if p.OwnerAddress == "" {
		p.OwnerAddress = ownerFieldValue(v, "ownerAddress")
	}
	p.OwnerEmiratesIDOrPassport = o.OwnerEmiratesIDOrPassport
	if p.OwnerEmiratesIDOrPassport == "" {
		p.OwnerEmiratesIDOrPassport = ownerFieldValue(v, "ownerEmiratesIdOrPassport")
	}
	p.OwnerContact = o.OwnerContact
	if p.OwnerContact == "" {
		p.OwnerContact = ownerFieldValue(v, "ownerContact")
	}

	for _, pair := range []struct{ key, val string }{
		{"ownerAddress", p.OwnerAddress},
		{"ownerEmiratesIdOrPassport", p.OwnerEmiratesIDOrPassport},
		{"ownerContact", p.OwnerContact},
	} {
		if pair.val == "" {
			return AgreementPayload{}, fmt.Errorf("%w: %s", ErrMissingOwnerField, pair.key)
		}
	}

	if o.AgreedAmount != nil {
		p.AgreedAmount = *o.AgreedAmount
	} else {
		p.AgreedAmount = v.PurchasePrice
	}

	p.Duration = o.Duration
	if p.Duration == "" {
		p.Duration = AgreementDurations[0]
	}
	valid := false
	for _, d := range AgreementDurations {
		if p.Duration == d {
			valid = true
			break
		}
	}
	if !valid {
		return AgreementPayload{}, fmt.Errorf("invalid duration %q", p.Duration)
	}

	return p, nil
}

// decodeAgreementOverrides reads the optional override body. An empty body
// means "all defaults"; a body that is present must be well-formed JSON, a
// corrupted override is never silently replaced with a default.
func decodeAgreementOverrides(body io.Reader) (AgreementOverrides, error) {
	var o AgreementOverrides
	if err := json.NewDecoder(body).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return AgreementOverrides{}, err
	}
	return o, nil
}

// GenerateAgreementHandler assembles the consignment agreement payload,
// persists it as the generation artifact and returns its download URL.
// Rendering the PDF itself is the document service's job, driven by this
// payload.
func GenerateAgreementHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	overrides, err := decodeAgreementOverrides(r.Body)
	if err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	if vehicle.Status != models.StatusConsignment {
		http.Error(w, "agreements apply to consignment vehicles only", http.StatusConflict)
		return
	}

	payload, err := BuildAgreementPayload(&vehicle, overrides)
	if err != nil {
		if errors.Is(err, ErrMissingOwnerField) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":         err.Error(),
				"missingFields": MissingOwnerFields(&vehicle),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dir := filepath.Join(uploadRoot(), "agreements")
	if err := os.MkdirAll(dir, 0755); err != nil {
		http.Error(w, "failed to create agreement directory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	name := fmt.Sprintf("agreement-%s-%s.json", vehicle.ID, time.Now().Format("20060102-150405"))
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		http.Error(w, "failed to encode payload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		http.Error(w, "failed to store payload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"downloadUrl": "/uploads/agreements/" + name,
	})
}
