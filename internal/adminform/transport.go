package adminform

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/money"
)

var validate = validatorv10.New()

// TransportForm is the flat transportation rate form.
type TransportForm struct {
	Zone     string `json:"zone" validate:"required"`
	WeightKg string `json:"weight_kg" validate:"required,numeric"`
	Price    string `json:"price" validate:"required,numeric"`
}

// transportMessages maps failed field/tag pairs to the console's messages.
var transportMessages = map[string]string{
	"Zone/required":     "zone is required",
	"WeightKg/required": "weight must be a number",
	"WeightKg/numeric":  "weight must be a number",
	"Price/required":    "price must be a number",
	"Price/numeric":     "price must be a number",
}

// Validate runs the pre-flight checks and returns the first field-specific
// message, never a raw validator error.
func (f TransportForm) Validate() error {
	trimmed := f
	trimmed.Zone = strings.TrimSpace(f.Zone)

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var fieldErrs validatorv10.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		if msg, known := transportMessages[first.Field()+"/"+first.Tag()]; known {
			return fmt.Errorf("%s", msg)
		}
	}
	return fmt.Errorf("invalid transportation form")
}

// Payload builds the JSON create/update body with the backend's fixed
// precision: weights carry three decimals, prices two.
func (f TransportForm) Payload() map[string]string {
	return map[string]string{
		"zone":      strings.TrimSpace(f.Zone),
		"weight_kg": fmt.Sprintf("%.3f", money.ParseNumber(f.WeightKg)),
		"price":     fmt.Sprintf("%.2f", money.ParseNumber(f.Price)),
	}
}

// Synthesize builds the optimistic local record from the submitted values.
func (f TransportForm) Synthesize(id int64, createdAt string) backend.Transport {
	now := time.Now().UTC().Format(time.RFC3339)
	if createdAt == "" {
		createdAt = now
	}
	weightKg := fmt.Sprintf("%.3f", money.ParseNumber(f.WeightKg))
	return backend.Transport{
		ID:        id,
		AdminID:   1,
		Zone:      strings.TrimSpace(f.Zone),
		WeightKg:  weightKg,
		Price:     fmt.Sprintf("%.2f", money.ParseNumber(f.Price)),
		CreatedAt: createdAt,
		UpdatedAt: now,
		Weight:    fmt.Sprintf("%.0f kg", money.ParseNumber(f.WeightKg)),
	}
}
