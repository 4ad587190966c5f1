// Package adminform maps the flat admin edit forms onto the backend's wire
// payloads and back. The product form's tier field names differ per slot —
// a backend contract quirk that lives in exactly one table here.
package adminform

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/pricing"
)

// tierSlot holds the outgoing field names for one tier position. Slots 1–2
// send their price as "equal"/"equal_2"; slot 3 sends "total_3". The names
// are not derivable from a uniform scheme and must not be normalized.
type tierSlot struct {
	from, to, price string
}

var tierSlots = [pricing.MaxTiers]tierSlot{
	{from: "from_number", to: "to_number", price: "equal"},
	{from: "from_number_2", to: "to_number_2", price: "equal_2"},
	{from: "from_number_3", to: "to_number_3", price: "total_3"},
}

// TierInput is one editable tier triple, raw strings straight from the form.
type TierInput struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Price string `json:"price"`
}

func (t TierInput) empty() bool {
	return t.From == "" && t.To == "" && t.Price == ""
}

// ProductForm is the flat admin product form.
type ProductForm struct {
	Category    string                        `json:"category"`
	Name        string                        `json:"name"`
	Image       string                        `json:"image"`
	PriceEach   string                        `json:"price_each"`
	Description string                        `json:"description"`
	Weight      string                        `json:"weight"`
	Tiers       [pricing.MaxTiers]TierInput `json:"tiers"`
}

// Validate checks required scalars before any network call, mirroring the
// admin console's field-specific messages. Tiers are free-form and not
// validated; the backend tolerates whatever the form held.
func (f ProductForm) Validate() error {
	if strings.TrimSpace(f.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.PriceEach), 64)
	if err != nil {
		return fmt.Errorf("price must be a number")
	}
	if price <= 0 {
		return fmt.Errorf("price must be positive")
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(f.Weight), 64)
	if err != nil {
		return fmt.Errorf("weight must be a number")
	}
	if weight <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	return nil
}

// Fields flattens the form into the exact outgoing field set. Only non-empty
// tier fields are included; an untouched tier slot contributes no keys at
// all, not empty strings.
func (f ProductForm) Fields() map[string]string {
	fields := map[string]string{
		"category":    strings.TrimSpace(f.Category),
		"image":       strings.TrimSpace(f.Image),
		"price_each":  formatNumber(f.PriceEach),
		"name":        strings.TrimSpace(f.Name),
		"description": strings.TrimSpace(f.Description),
		"weight":      formatNumber(f.Weight),
	}

	for i, tier := range f.Tiers {
		slot := tierSlots[i]
		if tier.From != "" {
			fields[slot.from] = tier.From
		}
		if tier.To != "" {
			fields[slot.to] = tier.To
		}
		if tier.Price != "" {
			fields[slot.price] = tier.Price
		}
	}
	return fields
}

// fieldOrder keeps multipart parts in the order the admin console sends
// them, stable for tests and request logs.
var fieldOrder = []string{
	"category", "image", "price_each", "name", "description", "weight",
	"from_number", "to_number", "equal",
	"from_number_2", "to_number_2", "equal_2",
	"from_number_3", "to_number_3", "total_3",
}

// Multipart encodes the flattened fields as the multipart form body the
// product endpoint expects.
func (f ProductForm) Multipart() (*backend.MultipartPayload, error) {
	fields := f.Fields()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range fieldOrder {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form body: %w", err)
	}

	return &backend.MultipartPayload{
		Body:        &buf,
		ContentType: writer.FormDataContentType(),
	}, nil
}

// TierFields rebuilds wire-shaped tiers from the form, used to synthesize a
// local record when the backend response carries none. An empty slot yields
// no tier; slot 3 prices through "total" like the wire contract.
func (f ProductForm) TierFields() []pricing.TierFields {
	var tiers []pricing.TierFields
	for i, tier := range f.Tiers {
		if tier.empty() {
			continue
		}
		wire := pricing.TierFields{From: tier.From, To: tier.To}
		if i == pricing.MaxTiers-1 {
			wire.Total = tier.Price
		} else {
			wire.Equal = tier.Price
		}
		tiers = append(tiers, wire)
	}
	return tiers
}

// Synthesize builds the optimistic local product from the submitted values;
// createdAt survives edits, both stamps refresh to now.
func (f ProductForm) Synthesize(id int64, createdAt string) backend.Product {
	now := time.Now().UTC().Format(time.RFC3339)
	if createdAt == "" {
		createdAt = now
	}
	return backend.Product{
		ID:          id,
		Category:    strings.TrimSpace(f.Category),
		Name:        strings.TrimSpace(f.Name),
		Image:       strings.TrimSpace(f.Image),
		PriceEach:   money.ParseNumber(f.PriceEach),
		Description: strings.TrimSpace(f.Description),
		WeightKg:    money.ParseNumber(f.Weight),
		CreatedAt:   createdAt,
		UpdatedAt:   now,
		Tiers:       f.TierFields(),
	}
}

// FromTiers prefills the form's tier slots from a record's wire tiers, the
// inverse mapping used when the edit modal opens.
func FromTiers(tiers []pricing.TierFields) [pricing.MaxTiers]TierInput {
	var inputs [pricing.MaxTiers]TierInput
	for i, t := range tiers {
		if i >= pricing.MaxTiers {
			break
		}
		inputs[i] = TierInput{From: t.From, To: t.To, Price: t.Price()}
	}
	return inputs
}

// formatNumber re-renders a numeric form value the way the console does
// (Number(x).toString()): trimmed, with unusable input collapsing to "0".
func formatNumber(v string) string {
	return strconv.FormatFloat(money.ParseNumber(v), 'f', -1, 64)
}
