package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/middleware"
	"github.com/example/autoshop/internal/reconcile"
)

// AdminOrderHandler serves the order console. Orders are immutable except
// for their status.
type AdminOrderHandler struct {
	client *backend.Client
	store  *reconcile.Store[backend.Order]
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(client *backend.Client) *AdminOrderHandler {
	return &AdminOrderHandler{client: client, store: reconcile.NewStore[backend.Order]()}
}

func (h *AdminOrderHandler) reload(token string) func(context.Context) ([]backend.Order, int, error) {
	return func(ctx context.Context) ([]backend.Order, int, error) {
		orders, err := h.client.AdminListOrders(ctx, token)
		if err != nil {
			return nil, 0, err
		}
		return orders, len(orders), nil
	}
}

// ListOrders returns the reconciled order list with optional status and
// customer search filters.
func (h *AdminOrderHandler) ListOrders(c *fiber.Ctx) error {
	token, _ := middleware.GetBackendToken(c)
	if !h.store.Loaded() {
		items, total, err := h.reload(token)(c.UserContext())
		if err != nil {
			return backendError(err)
		}
		h.store.Replace(items, total)
	}

	items, total := h.store.Items()

	status := strings.TrimSpace(c.Query("status"))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	filtered := make([]backend.Order, 0, len(items))
	for _, o := range items {
		if status != "" && o.Status != status {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(o.CustomerFirstName + " " + o.CustomerLastName + " " + o.CustomerEmail + " " + o.CustomerPhone)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		filtered = append(filtered, o)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     filtered,
		"total":    total,
		"statuses": backend.OrderStatuses,
	})
}

// RefreshOrders forces a foreground reload from the backend.
func (h *AdminOrderHandler) RefreshOrders(c *fiber.Ctx) error {
	token, _ := middleware.GetBackendToken(c)
	items, total, err := h.reload(token)(c.UserContext())
	if err != nil {
		return backendError(err)
	}
	h.store.Replace(items, total)
	return c.JSON(fiber.Map{"success": true, "data": items, "total": total})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus changes an order's status optimistically, rolling back
// when the backend refuses. Any known status may move to any other.
func (h *AdminOrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !backend.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "unknown order status")
	}

	token, _ := middleware.GetBackendToken(c)
	err = h.store.Mutate(c.UserContext(), id,
		func(o backend.Order) backend.Order {
			o.Status = req.Status
			return o
		},
		func(ctx context.Context) error {
			return h.client.UpdateOrderStatus(ctx, token, id, req.Status)
		},
	)
	if err != nil {
		return backendError(err)
	}

	order, _ := h.store.Get(id)
	return c.JSON(fiber.Map{"success": true, "data": order})
}
