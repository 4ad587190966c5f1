package cart

// The stored discount used to be a bare number with a "<= 1 means fraction"
// convention. The tagged form keeps both behaviors but makes the choice
// explicit at construction; LegacyDiscount is the only place the old
// threshold survives, for carts persisted before the change.

// DiscountKind tags how a discount value is interpreted.
type DiscountKind string

const (
	// DiscountNone is the zero value: nothing is subtracted.
	DiscountNone DiscountKind = ""
	// DiscountPercentage subtracts Value × subtotal (Value in [0, 1]).
	DiscountPercentage DiscountKind = "percentage"
	// DiscountAbsolute subtracts Value as a currency amount.
	DiscountAbsolute DiscountKind = "absolute"
)

// Discount is a tagged discount. The zero value means no discount.
type Discount struct {
	Kind  DiscountKind `json:"kind,omitempty"`
	Value float64      `json:"value,omitempty"`
}

// Percentage builds a fractional discount: 0.10 takes 10% off the subtotal.
func Percentage(fraction float64) Discount {
	return Discount{Kind: DiscountPercentage, Value: fraction}
}

// Absolute builds a fixed currency discount.
func Absolute(amount float64) Discount {
	return Discount{Kind: DiscountAbsolute, Value: amount}
}

// LegacyDiscount maps a stored numeric discount to the tagged form using the
// historical threshold: values up to and including 1 are a fraction of the
// subtotal (1.0 is a 100% discount, not one dollar), anything above is an
// absolute amount.
func LegacyDiscount(value float64) Discount {
	switch {
	case value == 0:
		return Discount{}
	case value <= 1:
		return Percentage(value)
	default:
		return Absolute(value)
	}
}

// AmountOf resolves the discount against a subtotal.
func (d Discount) AmountOf(subtotal float64) float64 {
	switch d.Kind {
	case DiscountPercentage:
		return subtotal * d.Value
	case DiscountAbsolute:
		return d.Value
	default:
		return 0
	}
}

// couponTable maps normalized coupon codes to their discounts. SAVE10 is the
// single honored code; everything else resolves to zero.
var couponTable = map[string]Discount{
	"SAVE10": Percentage(0.10),
}

func couponDiscount(normalized string) Discount {
	if d, ok := couponTable[normalized]; ok {
		return d
	}
	return Discount{}
}
