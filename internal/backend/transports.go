package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/example/autoshop/internal/shipping"
)

// Transport is a transportation rate record as the backend stores it: a flat
// per-shipment price bound to an advisory weight ceiling, numerics
// stringified ("500.000", "120.00"). Weight is a display duplicate
// ("500 kg") the backend maintains alongside weight_kg.
type Transport struct {
	ID        int64  `json:"id"`
	AdminID   int64  `json:"admin_id"`
	Zone      string `json:"zone"`
	WeightKg  string `json:"weight_kg"`
	Price     string `json:"price"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Weight    string `json:"weight"`
}

// RecordID implements reconcile.Record.
func (t Transport) RecordID() int64 { return t.ID }

// Rate adapts the record into the shipping engine's tagged form.
func (t Transport) Rate() shipping.Rate {
	return shipping.FromTransport(t.ID, t.Zone, t.WeightKg, t.Price)
}

// TransportPage is the transportation list plus the backend's total count.
type TransportPage struct {
	Records []Transport
	Total   int
}

type transportListEnvelope struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
	Data    struct {
		Data  []Transport `json:"data"`
		Total int         `json:"total"`
	} `json:"data"`
}

// ListTransports fetches the transportation rate list. The same endpoint
// serves the admin console and the cart's shipping selector.
func (c *Client) ListTransports(ctx context.Context, token string) (TransportPage, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodGet,
		path:   "/admin/transportations",
		token:  token,
		read:   true,
	})
	if err != nil {
		return TransportPage{}, err
	}

	var envelope transportListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return TransportPage{}, fmt.Errorf("unmarshal transportation list: %w", err)
	}
	return TransportPage{
		Records: envelope.Data.Data,
		Total:   envelope.Data.Total,
	}, nil
}

// SaveTransport creates (id == 0) or updates a transportation rate. Both go
// through POST with a JSON body. Returns the backend's record when the
// response carried one.
func (c *Client) SaveTransport(ctx context.Context, token string, id int64, payload map[string]string) (*Transport, error) {
	path := "/admin/transportations"
	if id != 0 {
		path = fmt.Sprintf("/admin/transportations/%d", id)
	}

	body, err := c.do(ctx, requestOpts{
		method: http.MethodPost,
		path:   path,
		token:  token,
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data *Transport `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil // success with missing data; caller synthesizes
	}
	if envelope.Data == nil || envelope.Data.ID == 0 {
		return nil, nil
	}
	return envelope.Data, nil
}

// DeleteTransport removes a transportation rate by id.
func (c *Client) DeleteTransport(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, requestOpts{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/admin/transportations/%d", id),
		token:  token,
	})
	return err
}
