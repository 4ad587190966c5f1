package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Order statuses the admin console cycles through. The backend enforces no
// transition graph: any status may move to any other.
var OrderStatuses = []string{"pending", "confirmed", "paid", "cancelled", "refunded"}

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a stored order line as the admin list returns it.
type OrderItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Image     string `json:"image"`
}

// Order is a stored order with its flattened customer block; the only field
// mutable after creation is Status.
type Order struct {
	ID                   int64       `json:"id"`
	Currency             string      `json:"currency"`
	Subtotal             string      `json:"subtotal"`
	Discount             string      `json:"discount"`
	Shipping             string      `json:"shipping"`
	Tax                  string      `json:"tax"`
	Total                string      `json:"total"`
	CustomerFirstName    string      `json:"customer_first_name"`
	CustomerLastName     string      `json:"customer_last_name"`
	CustomerEmail        string      `json:"customer_email"`
	CustomerPhone        string      `json:"customer_phone"`
	CustomerAddressLine1 string      `json:"customer_address_line1"`
	CustomerAddressLine2 string      `json:"customer_address_line2"`
	CustomerCity         string      `json:"customer_city"`
	CustomerState        string      `json:"customer_state"`
	CustomerPostalCode   string      `json:"customer_postal_code"`
	CustomerCountry      string      `json:"customer_country"`
	Items                []OrderItem `json:"items"`
	Status               string      `json:"status"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
	TransportationZone   *string     `json:"transportation_zone"`
	TransportationWeight *string     `json:"transportation_weight"`
	TransportationPrice  *string     `json:"transportation_price"`
}

// RecordID implements reconcile.Record.
func (o Order) RecordID() int64 { return o.ID }

// CreateOrderPayload is the checkout wire payload. Field names and shape are
// a compatibility contract with the backend and must not drift.
type CreateOrderPayload struct {
	Currency       string                 `json:"currency"`
	Items          []CreateOrderItem      `json:"items"`
	Summary        OrderSummaryPayload    `json:"summary"`
	Coupon         string                 `json:"coupon,omitempty"`
	Transportation *TransportationPayload `json:"transportation,omitempty"`
	Customer       CustomerPayload        `json:"customer"`
}

// CreateOrderItem is one checkout line. All amounts rounded to 2 decimals.
type CreateOrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Image     string  `json:"image"`
	Category  string  `json:"category,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	SKU       string  `json:"sku,omitempty"`
}

// OrderSummaryPayload carries the computed cart summary, 2-decimal rounded.
type OrderSummaryPayload struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// TransportationPayload records the selected shipping rate on the order.
type TransportationPayload struct {
	Zone     string  `json:"zone"`
	WeightKg string  `json:"weight_kg"`
	Price    float64 `json:"price"`
}

// CustomerPayload is the checkout customer block.
type CustomerPayload struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Address   AddressPayload `json:"address"`
	Notes     string         `json:"notes,omitempty"`
}

// AddressPayload is the nested checkout address.
type AddressPayload struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateOrder submits a checkout order. Returns the created order when the
// backend echoes one back.
func (c *Client) CreateOrder(ctx context.Context, payload CreateOrderPayload) (*Order, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodPost,
		path:   "/orders",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data *Order `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil
	}
	return envelope.Data, nil
}

// AdminListOrders fetches every order for the admin console.
func (c *Client) AdminListOrders(ctx context.Context, token string) ([]Order, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodGet,
		path:   "/admin/orders",
		token:  token,
		read:   true,
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Order `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal order list: %w", err)
	}
	return envelope.Data, nil
}

// UpdateOrderStatus PATCHes the one mutable order field.
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id int64, status string) error {
	_, err := c.do(ctx, requestOpts{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/admin/orders/%d/status", id),
		token:  token,
		body:   map[string]string{"status": status},
	})
	return err
}
