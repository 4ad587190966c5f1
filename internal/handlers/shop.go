package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/pricing"
	"github.com/example/autoshop/internal/utils"
)

// ShopHandler serves the public catalog.
type ShopHandler struct {
	client *backend.Client
}

// NewShopHandler constructs ShopHandler.
func NewShopHandler(client *backend.Client) *ShopHandler {
	return &ShopHandler{client: client}
}

// productView decorates a normalized product with display strings for the
// requested language.
type productView struct {
	backend.Product
	PriceDisplay   string   `json:"price_display"`
	CreatedDisplay string   `json:"created_display"`
	TierLabels     []string `json:"tier_labels"`
}

func viewOf(p backend.Product, lang string) productView {
	labels := make([]string, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		if t.Empty() {
			continue
		}
		labels = append(labels, t.Label())
	}
	return productView{
		Product:        p,
		PriceDisplay:   money.FormatMoney(p.PriceEach, lang),
		CreatedDisplay: money.FormatDate(p.CreatedAt, lang),
		TierLabels:     labels,
	}
}

// ListProducts returns the localized catalog page with optional search and
// category filters. Filtering happens on the fetched page, matching how the
// storefront always narrowed the visible list rather than the query.
func (h *ShopHandler) ListProducts(c *fiber.Ctx) error {
	lang := langFrom(c)
	pg := utils.ParsePagination(c)

	page, err := h.client.ListProducts(c.UserContext(), pg.Page)
	if err != nil {
		return backendError(err)
	}

	products := backend.NormalizeProducts(page.Records, lang)

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category := strings.TrimSpace(c.Query("category"))

	views := make([]productView, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		views = append(views, viewOf(p, lang))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    views,
		"pagination": fiber.Map{
			"current_page": pg.Page,
			"total_items":  page.Total,
		},
	})
}

// GetProduct returns one localized product.
func (h *ShopHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	record, err := h.client.GetProduct(c.UserContext(), id)
	if err != nil {
		return backendError(err)
	}

	lang := langFrom(c)
	product := backend.NormalizeProduct(record.Locale(lang))
	if product.ID == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": viewOf(product, lang)})
}

// QuoteProduct resolves the tiered unit price for a prospective quantity.
func (h *ShopHandler) QuoteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	rawQty, err := strconv.ParseFloat(c.Query("qty", "1"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "qty must be a number")
	}
	qty := pricing.ClampQty(rawQty)

	record, err := h.client.GetProduct(c.UserContext(), id)
	if err != nil {
		return backendError(err)
	}

	lang := langFrom(c)
	product := backend.NormalizeProduct(record.Locale(lang))
	if product.ID == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	tiers := pricing.NormalizeTiers(product.Tiers)
	unit := pricing.ResolveUnitPrice(qty, product.PriceEach, tiers)
	lineTotal := money.Round2(unit * float64(qty))

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"product_id":         product.ID,
			"qty":                qty,
			"unit_price":         money.Round2(unit),
			"line_total":         lineTotal,
			"unit_price_display": money.FormatMoney(unit, lang),
			"line_total_display": money.FormatMoney(lineTotal, lang),
		},
	})
}
