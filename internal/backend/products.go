package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/pricing"
)

// LocaleProduct is one language variant of a product record, exactly as the
// backend sends it: every numeric stringified, tiers under "quantity".
type LocaleProduct struct {
	ID          int64                `json:"id"`
	AdminID     int64                `json:"admin_id"`
	Category    string               `json:"category"`
	Name        string               `json:"name"`
	Image       string               `json:"image"`
	PriceEach   string               `json:"price_each"`
	Description string               `json:"description"`
	Weight      string               `json:"weight"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
	Quantity    []pricing.TierFields `json:"quantity"`
}

// ProductRecord is the bilingual envelope every product travels in.
type ProductRecord struct {
	EN LocaleProduct `json:"en"`
	AR LocaleProduct `json:"ar"`
}

// Locale picks a language variant, defaulting to English.
func (r ProductRecord) Locale(lang string) LocaleProduct {
	if lang == "ar" {
		return r.AR
	}
	return r.EN
}

// Product is the normalized local shape used by the storefront and the admin
// console: parsed numerics, trimmed category, tiers capped at three.
type Product struct {
	ID          int64                `json:"id"`
	Category    string               `json:"category"`
	Name        string               `json:"name"`
	Image       string               `json:"image"`
	PriceEach   float64              `json:"price_each"`
	Description string               `json:"description"`
	WeightKg    float64              `json:"weight"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
	Tiers       []pricing.TierFields `json:"tiers"`
}

// RecordID implements reconcile.Record.
func (p Product) RecordID() int64 { return p.ID }

// NormalizeProduct converts one locale variant into the local shape.
func NormalizeProduct(p LocaleProduct) Product {
	tiers := p.Quantity
	if len(tiers) > pricing.MaxTiers {
		tiers = tiers[:pricing.MaxTiers]
	}
	return Product{
		ID:          p.ID,
		Category:    strings.TrimSpace(p.Category),
		Name:        p.Name,
		Image:       p.Image,
		PriceEach:   money.ParseNumber(p.PriceEach),
		Description: p.Description,
		WeightKg:    money.ParseNumber(p.Weight),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Tiers:       tiers,
	}
}

// NormalizeProducts maps a record page into one language's product list.
func NormalizeProducts(records []ProductRecord, lang string) []Product {
	products := make([]Product, 0, len(records))
	for _, r := range records {
		products = append(products, NormalizeProduct(r.Locale(lang)))
	}
	return products
}

// ProductPage is a page of bilingual records plus the backend's total count.
type ProductPage struct {
	Records []ProductRecord
	Total   int
}

// productListEnvelope mirrors the backend's paginated product response.
type productListEnvelope struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
	Data    struct {
		CurrentPage int             `json:"current_page"`
		Data        []ProductRecord `json:"data"`
		PerPage     int             `json:"per_page"`
		Total       int             `json:"total"`
	} `json:"data"`
}

type createOrUpdateEnvelope struct {
	Status  string          `json:"status"`
	Message any             `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ListProducts fetches the public localized product listing.
func (c *Client) ListProducts(ctx context.Context, page int) (ProductPage, error) {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	body, err := c.do(ctx, requestOpts{
		method: http.MethodGet,
		path:   "/products",
		query:  query,
		read:   true,
	})
	if err != nil {
		return ProductPage{}, err
	}
	return decodeProductPage(body)
}

// GetProduct fetches one public product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (ProductRecord, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodGet,
		path:   fmt.Sprintf("/products/%d", id),
		read:   true,
	})
	if err != nil {
		return ProductRecord{}, err
	}

	var envelope struct {
		Data ProductRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ProductRecord{}, fmt.Errorf("unmarshal product response: %w", err)
	}
	return envelope.Data, nil
}

// AdminListProducts fetches the admin product listing with the session token.
func (c *Client) AdminListProducts(ctx context.Context, token string) (ProductPage, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodGet,
		path:   "/admin/products",
		token:  token,
		read:   true,
	})
	if err != nil {
		return ProductPage{}, err
	}
	return decodeProductPage(body)
}

func decodeProductPage(body []byte) (ProductPage, error) {
	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ProductPage{}, fmt.Errorf("unmarshal product list: %w", err)
	}
	return ProductPage{
		Records: envelope.Data.Data,
		Total:   envelope.Data.Total,
	}, nil
}

// SaveProduct creates (id == 0) or updates a product. The backend takes a
// multipart form on POST for both cases. The returned raw data block may be
// a bilingual record, a single variant, or nothing at all; callers decide
// whether it is usable for a merge.
func (c *Client) SaveProduct(ctx context.Context, token string, id int64, form *MultipartPayload) (json.RawMessage, error) {
	path := "/admin/products"
	if id != 0 {
		path = fmt.Sprintf("/admin/products/%d", id)
	}

	body, err := c.do(ctx, requestOpts{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		rawBody:     form.Body,
		contentType: form.ContentType,
	})
	if err != nil {
		return nil, err
	}

	var envelope createOrUpdateEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Treated as success with missing data: the mutation likely landed
		// server-side even though the response shape was unexpected.
		return nil, nil
	}
	return envelope.Data, nil
}

// DeleteProduct removes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, requestOpts{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/admin/products/%d", id),
		token:  token,
	})
	return err
}

// MapProductResponse interprets a create/update data block, handling both
// the bilingual envelope and a bare single-language record. A nil result
// means the response was not usable and the caller should synthesize the
// record locally.
func MapProductResponse(raw json.RawMessage, lang string) *Product {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var record ProductRecord
	if err := json.Unmarshal(raw, &record); err == nil && (record.EN.ID != 0 || record.AR.ID != 0) {
		p := NormalizeProduct(record.Locale(lang))
		return &p
	}

	var single LocaleProduct
	if err := json.Unmarshal(raw, &single); err == nil && single.ID != 0 {
		p := NormalizeProduct(single)
		return &p
	}
	return nil
}
