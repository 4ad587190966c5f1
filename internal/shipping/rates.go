package shipping

import (
	"fmt"

	"github.com/example/autoshop/internal/money"
)

// Two rate shapes coexist in the data: a flat per-shipment price bound to an
// advisory weight ceiling, and a per-kilogram price multiplied by the cart's
// total weight. The kind tag replaces the original duck-typing on which
// fields happened to be present.

// Kind discriminates the two rate variants.
type Kind string

const (
	// Flat charges Price per shipment regardless of weight. CeilingKg is
	// display-only and is not enforced when computing the charge.
	Flat Kind = "flat"
	// PerKg charges Price for every kilogram of cart weight.
	PerKg Kind = "per_kg"
)

// Rate is one zone-based shipping rate.
type Rate struct {
	ID        int64   `json:"id"`
	Kind      Kind    `json:"kind"`
	Zone      string  `json:"zone"`
	CeilingKg float64 `json:"ceiling_kg,omitempty"`
	Price     float64 `json:"price"`
}

// Charge resolves the shipping amount for the given total cart weight.
func (r Rate) Charge(totalWeightKg float64) float64 {
	switch r.Kind {
	case PerKg:
		return r.Price * totalWeightKg
	default:
		return r.Price
	}
}

// Key returns the opaque composite selection key. Zone names are not unique,
// so the key folds in weight, price and list position.
func (r Rate) key(index int) string {
	return fmt.Sprintf("%s|%.3f|%.2f|%d", r.Zone, r.CeilingKg, r.Price, index)
}

// Keyed pairs a rate with its composite key for selection lists.
type Keyed struct {
	Rate
	Key string `json:"key"`
}

// Keys annotates rates with their composite selection keys.
func Keys(rates []Rate) []Keyed {
	keyed := make([]Keyed, 0, len(rates))
	for i, r := range rates {
		keyed = append(keyed, Keyed{Rate: r, Key: r.key(i)})
	}
	return keyed
}

// SelectRate resolves a composite key against a rate list. An empty or stale
// key selects nothing, which callers treat as zero shipping.
func SelectRate(rates []Rate, key string) (Rate, bool) {
	if key == "" {
		return Rate{}, false
	}
	for i, r := range rates {
		if r.key(i) == key {
			return r, true
		}
	}
	return Rate{}, false
}

// FromTransport adapts a backend transportation record (flat price with an
// advisory weight ceiling, both stringified) into a Rate.
func FromTransport(id int64, zone, weightKg, price string) Rate {
	return Rate{
		ID:        id,
		Kind:      Flat,
		Zone:      zone,
		CeilingKg: money.ParseNumber(weightKg),
		Price:     money.ParseNumber(price),
	}
}
