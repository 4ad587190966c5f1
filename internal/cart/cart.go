package cart

import (
	"strings"

	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/pricing"
	"github.com/example/autoshop/internal/shipping"
)

// DefaultCurrency is the storefront's only transaction currency.
const DefaultCurrency = "USD"

// Line is one cart line. Price is the unit price snapshotted at add time; a
// re-add overwrites it with the latest resolved price so stale tier prices
// never mix within a line.
type Line struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	WeightKg  float64 `json:"weight,omitempty"`
}

// State is the cart aggregate. All reducers are pure: they return a new
// State and never mutate the receiver's slices in place.
type State struct {
	Items    []Line   `json:"items"`
	Coupon   string   `json:"coupon,omitempty"`
	Discount Discount `json:"discount"`
	Currency string   `json:"currency"`
}

// New returns an empty USD cart.
func New() State {
	return State{Currency: DefaultCurrency}
}

func (s State) cloneItems() []Line {
	items := make([]Line, len(s.Items))
	copy(items, s.Items)
	return items
}

// AddItem appends a line, or merges when the product is already present:
// quantities add up, every other field takes the incoming value.
func (s State) AddItem(line Line) State {
	line.Qty = pricing.ClampQty(float64(line.Qty))

	items := s.cloneItems()
	for i, existing := range items {
		if existing.ProductID == line.ProductID {
			merged := line
			merged.Qty = existing.Qty + line.Qty
			items[i] = merged
			s.Items = items
			return s
		}
	}
	s.Items = append(items, line)
	return s
}

// IncrementQty raises a line's quantity by one, capped at 9999.
func (s State) IncrementQty(productID int64) State {
	return s.adjust(productID, +1)
}

// DecrementQty lowers a line's quantity by one, flooring at 1. Removing a
// line is always an explicit RemoveItem, never a decrement to zero.
func (s State) DecrementQty(productID int64) State {
	return s.adjust(productID, -1)
}

func (s State) adjust(productID int64, delta int) State {
	items := s.cloneItems()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Qty = pricing.ClampQty(float64(items[i].Qty + delta))
			break
		}
	}
	s.Items = items
	return s
}

// SetQty replaces a line's quantity, clamped to [1, 9999] with fractional
// input floored.
func (s State) SetQty(productID int64, qty float64) State {
	items := s.cloneItems()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Qty = pricing.ClampQty(qty)
			break
		}
	}
	s.Items = items
	return s
}

// RemoveItem deletes a line entirely.
func (s State) RemoveItem(productID int64) State {
	items := make([]Line, 0, len(s.Items))
	for _, l := range s.Items {
		if l.ProductID != productID {
			items = append(items, l)
		}
	}
	s.Items = items
	return s
}

// Clear empties the cart. Coupon and discount go with it; a discount is
// never kept alive without its coupon.
func (s State) Clear() State {
	s.Items = nil
	s.Coupon = ""
	s.Discount = Discount{}
	return s
}

// ApplyCoupon normalizes and applies a coupon code. Unrecognized codes are
// still recorded as applied but carry a zero discount; callers cannot tell
// an invalid code from a valid zero-value one.
func (s State) ApplyCoupon(code string) State {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return s
	}
	s.Coupon = normalized
	s.Discount = couponDiscount(normalized)
	return s
}

// Subtotal is the sum of line price × quantity.
func (s State) Subtotal() float64 {
	var sum float64
	for _, l := range s.Items {
		sum += l.Price * float64(l.Qty)
	}
	return sum
}

// TotalWeightKg sums line weight × quantity; lines without a weight count
// as zero.
func (s State) TotalWeightKg() float64 {
	var sum float64
	for _, l := range s.Items {
		sum += l.WeightKg * float64(l.Qty)
	}
	return sum
}

// Summary carries the derived cart amounts, already rounded for display and
// for the order wire payload.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	WeightKg float64 `json:"weight_kg"`
}

// Totals computes the cart summary. rate may be nil (no transportation
// selected, zero shipping). The grand total is clamped at zero so an
// oversized absolute discount can never produce a negative order.
func (s State) Totals(rate *shipping.Rate, taxRate float64) Summary {
	subtotal := s.Subtotal()
	discount := s.Discount.AmountOf(subtotal)
	weight := s.TotalWeightKg()

	var ship float64
	if rate != nil {
		ship = rate.Charge(weight)
	}

	tax := taxRate * (subtotal - discount + ship)
	total := subtotal - discount + ship + tax
	if total < 0 {
		total = 0
	}

	return Summary{
		Subtotal: money.Round2(subtotal),
		Discount: money.Round2(discount),
		Shipping: money.Round2(ship),
		Tax:      money.Round2(tax),
		Total:    money.Round2(total),
		WeightKg: weight,
	}
}
