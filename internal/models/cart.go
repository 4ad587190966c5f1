package models

import (
	"github.com/google/uuid"

	"github.com/example/autoshop/internal/cart"
)

// CartRecord is a persisted cart, keyed by the visitor's cart cookie. Carts
// are the one piece of state this service owns durably: they must survive
// restarts and be restored before the first cart interaction.
type CartRecord struct {
	BaseModel
	Token         string           `gorm:"uniqueIndex" json:"token"`
	Coupon        string           `json:"coupon"`
	DiscountKind  string           `json:"discount_kind"`
	DiscountValue float64          `json:"discount_value"`
	Currency      string           `json:"currency"`
	TransportKey  string           `json:"transport_key"`
	Items         []CartItemRecord `gorm:"foreignKey:CartID" json:"items"`
}

// CartItemRecord is one persisted cart line. Position preserves insertion
// order, which the cart aggregate's reducers rely on.
type CartItemRecord struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;index" json:"cart_id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Category  string    `json:"category"`
	SKU       string    `json:"sku"`
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	WeightKg  float64   `json:"weight_kg"`
	Position  int       `json:"position"`
}

// State rehydrates the cart aggregate from the stored record.
func (r CartRecord) State() cart.State {
	state := cart.State{
		Coupon:   r.Coupon,
		Discount: cart.Discount{Kind: cart.DiscountKind(r.DiscountKind), Value: r.DiscountValue},
		Currency: r.Currency,
	}
	if state.Currency == "" {
		state.Currency = cart.DefaultCurrency
	}
	for _, item := range r.Items {
		state.Items = append(state.Items, cart.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Category:  item.Category,
			SKU:       item.SKU,
			Price:     item.Price,
			Qty:       item.Qty,
			WeightKg:  item.WeightKg,
		})
	}
	return state
}

// SetState replaces the record's stored fields from a cart aggregate. Line
// rows are rebuilt wholesale; callers persist with a full association
// replace.
func (r *CartRecord) SetState(state cart.State) {
	r.Coupon = state.Coupon
	r.DiscountKind = string(state.Discount.Kind)
	r.DiscountValue = state.Discount.Value
	r.Currency = state.Currency

	items := make([]CartItemRecord, 0, len(state.Items))
	for i, line := range state.Items {
		items = append(items, CartItemRecord{
			CartID:    r.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Category:  line.Category,
			SKU:       line.SKU,
			Price:     line.Price,
			Qty:       line.Qty,
			WeightKg:  line.WeightKg,
			Position:  i,
		})
	}
	r.Items = items
}
