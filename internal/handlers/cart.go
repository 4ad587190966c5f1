package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/cart"
	"github.com/example/autoshop/internal/models"
	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/pricing"
	"github.com/example/autoshop/internal/shipping"
)

// CartCookie identifies the visitor's persisted cart.
const CartCookie = "cart_token"

const cartCookieTTL = 365 * 24 * time.Hour

// CartHandler owns the persisted cart and its derived totals.
type CartHandler struct {
	db      *gorm.DB
	client  *backend.Client
	taxRate float64
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, client *backend.Client, taxRate float64) *CartHandler {
	return &CartHandler{db: db, client: client, taxRate: taxRate}
}

func (h *CartHandler) loadCart(c *fiber.Ctx) (*models.CartRecord, error) {
	token := c.Cookies(CartCookie)
	if token == "" {
		token = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     CartCookie,
			Value:    token,
			Expires:  time.Now().Add(cartCookieTTL),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}

	var record models.CartRecord
	err := h.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("token = ?", token).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = models.CartRecord{Token: token, Currency: cart.DefaultCurrency}
	if err := h.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (h *CartHandler) persist(record *models.CartRecord, state cart.State) error {
	record.SetState(state)
	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", record.ID).Delete(&models.CartItemRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(record).Error
	})
}

// rates fetches the current transportation options. A failed fetch degrades
// to no options rather than blocking the cart.
func (h *CartHandler) rates(ctx context.Context) []shipping.Rate {
	page, err := h.client.ListTransports(ctx, "")
	if err != nil {
		return nil
	}
	rates := make([]shipping.Rate, 0, len(page.Records))
	for _, t := range page.Records {
		rates = append(rates, t.Rate())
	}
	return rates
}

func (h *CartHandler) respond(c *fiber.Ctx, record *models.CartRecord, state cart.State) error {
	lang := langFrom(c)
	rates := h.rates(c.UserContext())

	var ratePtr *shipping.Rate
	if selected, ok := shipping.SelectRate(rates, record.TransportKey); ok {
		ratePtr = &selected
	}
	summary := state.Totals(ratePtr, h.taxRate)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":         state.Items,
			"coupon":        state.Coupon,
			"currency":      state.Currency,
			"transport_key": record.TransportKey,
			"transports":    shipping.Keys(rates),
			"summary":       summary,
			"display": fiber.Map{
				"subtotal": money.FormatMoney(summary.Subtotal, lang),
				"discount": money.FormatMoney(summary.Discount, lang),
				"shipping": money.FormatMoney(summary.Shipping, lang),
				"tax":      money.FormatMoney(summary.Tax, lang),
				"total":    money.FormatMoney(summary.Total, lang),
			},
		},
	})
}

// GetCart returns the cart state with totals and transport options.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	return h.respond(c, record, record.State())
}

type addItemRequest struct {
	ProductID int64   `json:"product_id"`
	Qty       float64 `json:"qty"`
}

// AddItem adds a product to the cart, merging quantities when the product is
// already present. The line's unit price is re-resolved against the product's
// quantity tiers at the merged quantity.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	recordResp, err := h.client.GetProduct(c.UserContext(), req.ProductID)
	if err != nil {
		return backendError(err)
	}
	product := backend.NormalizeProduct(recordResp.Locale(langFrom(c)))
	if product.ID == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	state := record.State()

	addQty := pricing.ClampQty(req.Qty)
	mergedQty := addQty
	for _, line := range state.Items {
		if line.ProductID == product.ID {
			mergedQty = pricing.ClampQty(float64(line.Qty + addQty))
			break
		}
	}
	unit := pricing.ResolveUnitPrice(mergedQty, product.PriceEach, pricing.NormalizeTiers(product.Tiers))

	state = state.AddItem(cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Category:  product.Category,
		Price:     unit,
		Qty:       addQty,
		WeightKg:  product.WeightKg,
	})

	if err := h.persist(record, state); err != nil {
		return err
	}
	return h.respond(c, record, state)
}

// reprice re-resolves one line's unit price after a quantity change. A failed
// product fetch keeps the stored price.
func (h *CartHandler) reprice(ctx context.Context, state cart.State, productID int64, lang string) cart.State {
	for i, line := range state.Items {
		if line.ProductID != productID {
			continue
		}
		recordResp, err := h.client.GetProduct(ctx, productID)
		if err != nil {
			return state
		}
		product := backend.NormalizeProduct(recordResp.Locale(lang))
		if product.ID == 0 {
			return state
		}
		state.Items[i].Price = pricing.ResolveUnitPrice(line.Qty, product.PriceEach, pricing.NormalizeTiers(product.Tiers))
		return state
	}
	return state
}

func (h *CartHandler) adjustQty(c *fiber.Ctx, apply func(cart.State, int64) cart.State) error {
	productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	state := apply(record.State(), productID)
	state = h.reprice(c.UserContext(), state, productID, langFrom(c))

	if err := h.persist(record, state); err != nil {
		return err
	}
	return h.respond(c, record, state)
}

// IncrementItem raises a line quantity by one.
func (h *CartHandler) IncrementItem(c *fiber.Ctx) error {
	return h.adjustQty(c, func(s cart.State, id int64) cart.State { return s.IncrementQty(id) })
}

// DecrementItem lowers a line quantity by one, flooring at one.
func (h *CartHandler) DecrementItem(c *fiber.Ctx) error {
	return h.adjustQty(c, func(s cart.State, id int64) cart.State { return s.DecrementQty(id) })
}

type setQtyRequest struct {
	Qty float64 `json:"qty"`
}

// SetItemQty replaces a line quantity outright.
func (h *CartHandler) SetItemQty(c *fiber.Ctx) error {
	var req setQtyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return h.adjustQty(c, func(s cart.State, id int64) cart.State { return s.SetQty(id, req.Qty) })
}

// RemoveItem deletes a line entirely.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	state := record.State().RemoveItem(productID)

	if err := h.persist(record, state); err != nil {
		return err
	}
	return h.respond(c, record, state)
}

// ClearCart empties the cart, dropping coupon, discount and the selected
// transportation.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	state := record.State().Clear()
	record.TransportKey = ""

	if err := h.persist(record, state); err != nil {
		return err
	}
	return h.respond(c, record, state)
}

type couponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon applies a coupon code to the cart.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.loadCart(c)
	if err != nil {
		return err
	}
	state := record.State().ApplyCoupon(req.Code)

	if err := h.persist(record, state); err != nil {
		return err
	}
	return h.respond(c, record, state)
}

type transportRequest struct {
	Key string `json:"key"`
}

// SelectTransport stores the chosen transportation key. An empty key clears
// the selection; an unknown key is rejected.
func (h *CartHandler) SelectTransport(c *fiber.Ctx) error {
	var req transportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.loadCart(c)
	if err != nil {
		return err
	}

	if req.Key != "" {
		if _, ok := shipping.SelectRate(h.rates(c.UserContext()), req.Key); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown transportation option")
		}
	}
	record.TransportKey = req.Key
	if err := h.db.Model(record).Update("transport_key", req.Key).Error; err != nil {
		return err
	}
	return h.respond(c, record, record.State())
}
