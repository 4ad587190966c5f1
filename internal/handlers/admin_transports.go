package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/adminform"
	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/middleware"
	"github.com/example/autoshop/internal/reconcile"
)

// AdminTransportHandler serves the transportation rate console.
type AdminTransportHandler struct {
	client *backend.Client
	store  *reconcile.Store[backend.Transport]
}

// NewAdminTransportHandler constructs AdminTransportHandler.
func NewAdminTransportHandler(client *backend.Client) *AdminTransportHandler {
	return &AdminTransportHandler{client: client, store: reconcile.NewStore[backend.Transport]()}
}

func (h *AdminTransportHandler) reload(token string) func(context.Context) ([]backend.Transport, int, error) {
	return func(ctx context.Context) ([]backend.Transport, int, error) {
		page, err := h.client.ListTransports(ctx, token)
		if err != nil {
			return nil, 0, err
		}
		return page.Records, page.Total, nil
	}
}

// ListTransports returns the reconciled transportation list with an optional
// zone search.
func (h *AdminTransportHandler) ListTransports(c *fiber.Ctx) error {
	token, _ := middleware.GetBackendToken(c)
	if !h.store.Loaded() {
		items, total, err := h.reload(token)(c.UserContext())
		if err != nil {
			return backendError(err)
		}
		h.store.Replace(items, total)
	}

	items, total := h.store.Items()

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := make([]backend.Transport, 0, len(items))
		for _, t := range items {
			if strings.Contains(strings.ToLower(t.Zone), search) {
				filtered = append(filtered, t)
			}
		}
		items = filtered
	}

	return c.JSON(fiber.Map{"success": true, "data": items, "total": total})
}

func (h *AdminTransportHandler) save(c *fiber.Ctx, id int64) error {
	var form adminform.TransportForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := form.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	token, _ := middleware.GetBackendToken(c)
	record, err := h.store.CreateOrUpdate(c.UserContext(), id,
		func(ctx context.Context) (*backend.Transport, error) {
			return h.client.SaveTransport(ctx, token, id, form.Payload())
		},
		func(localID int64) backend.Transport {
			createdAt := time.Now().UTC().Format(time.RFC3339)
			if id != 0 {
				if existing, ok := h.store.Get(id); ok {
					createdAt = existing.CreatedAt
				}
			}
			return form.Synthesize(localID, createdAt)
		},
	)
	if err != nil {
		return backendError(err)
	}

	status := fiber.StatusOK
	if id == 0 {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "data": record})
}

// CreateTransport creates a transportation rate.
func (h *AdminTransportHandler) CreateTransport(c *fiber.Ctx) error {
	return h.save(c, 0)
}

// UpdateTransport updates an existing transportation rate.
func (h *AdminTransportHandler) UpdateTransport(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return h.save(c, id)
}

// DeleteTransport removes a transportation rate optimistically.
func (h *AdminTransportHandler) DeleteTransport(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	token, _ := middleware.GetBackendToken(c)
	err = h.store.Delete(c.UserContext(), id,
		func(ctx context.Context) error {
			return h.client.DeleteTransport(ctx, token, id)
		},
		h.reload(token),
	)
	if err != nil {
		return backendError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
