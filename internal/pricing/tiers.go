package pricing

import (
	"fmt"

	"github.com/example/autoshop/internal/money"
)

// MaxTiers is the number of tier slots a product carries. The backend's
// product form has exactly three and list responses are truncated to match.
const MaxTiers = 3

// TierFields is the wire shape of a quantity tier. All bounds arrive as
// strings; the price lives in "equal" for the first two slots and in "total"
// for the third. Which field is populated depends on the slot the tier was
// saved from, so both are carried and Price() hides the difference.
type TierFields struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Equal string `json:"equal,omitempty"`
	Total string `json:"total,omitempty"`
}

// Price returns the tier's effective price field, preferring "equal".
func (t TierFields) Price() string {
	if t.Equal != "" {
		return t.Equal
	}
	return t.Total
}

// Empty reports whether no field of the tier is populated.
func (t TierFields) Empty() bool {
	return t.From == "" && t.To == "" && t.Equal == "" && t.Total == ""
}

// Label renders a tier the way the admin tables show it: "1–50 = 500",
// "51+ = 450", "≤100 = 80" or "-" when no bound is set.
func (t TierFields) Label() string {
	price := t.Price()
	switch {
	case t.From != "" && t.To != "":
		return fmt.Sprintf("%s–%s = %s", t.From, t.To, price)
	case t.From != "":
		return fmt.Sprintf("%s+ = %s", t.From, price)
	case t.To != "":
		return fmt.Sprintf("≤%s = %s", t.To, price)
	default:
		return "-"
	}
}

// QuantityTier is a parsed tier. To == nil marks an open-ended [From, ∞)
// range. Equal, when non-zero, is an exact-quantity override checked before
// any range matching.
type QuantityTier struct {
	From  float64
	To    *float64
	Equal float64
	Price float64
}

// NormalizeTiers parses wire tiers into computable form, keeping at most
// MaxTiers entries. Non-numeric bounds collapse to zero rather than dropping
// the tier.
func NormalizeTiers(raw []TierFields) []QuantityTier {
	if len(raw) > MaxTiers {
		raw = raw[:MaxTiers]
	}

	tiers := make([]QuantityTier, 0, len(raw))
	for _, t := range raw {
		tier := QuantityTier{
			From:  money.ParseNumber(t.From),
			Equal: money.ParseNumber(t.Equal),
			Price: money.ParseNumber(t.Price()),
		}
		if t.To != "" {
			to := money.ParseNumber(t.To)
			tier.To = &to
		}
		tiers = append(tiers, tier)
	}
	return tiers
}

// ResolveUnitPrice determines the effective unit price for qty units.
//
// An exact-quantity tier wins immediately, first match taken. Otherwise every
// tier is scanned in list order and the last matching range wins; open-ended
// tiers therefore override any earlier range tier they overlap. Stored tier
// data relies on that ordering, so the scan deliberately does not
// short-circuit. With no match the base price is returned unchanged.
func ResolveUnitPrice(qty int, basePrice float64, tiers []QuantityTier) float64 {
	if len(tiers) == 0 || qty == 0 {
		return basePrice
	}

	q := float64(qty)
	for _, t := range tiers {
		if t.Equal != 0 && q == t.Equal {
			return t.Price
		}
	}

	matched := basePrice
	found := false
	for _, t := range tiers {
		if t.Price == 0 {
			continue
		}
		if t.To != nil {
			if q >= t.From && q <= *t.To {
				matched = t.Price
				found = true
			}
		} else if q >= t.From {
			matched = t.Price
			found = true
		}
	}
	if !found {
		return basePrice
	}
	return matched
}

// ClampQty sanitizes a requested quantity to the storefront's [1, 9999]
// input range, flooring fractional values.
func ClampQty(qty float64) int {
	n := int(qty)
	if n < 1 {
		return 1
	}
	if n > 9999 {
		return 9999
	}
	return n
}
