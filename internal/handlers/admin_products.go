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

// AdminProductHandler serves the admin product console on top of the
// reconciling store. The console operates on the English variant; the
// bilingual record is the backend's concern.
type AdminProductHandler struct {
	client *backend.Client
	store  *reconcile.Store[backend.Product]
}

// NewAdminProductHandler constructs AdminProductHandler.
func NewAdminProductHandler(client *backend.Client) *AdminProductHandler {
	return &AdminProductHandler{client: client, store: reconcile.NewStore[backend.Product]()}
}

func (h *AdminProductHandler) reload(token string) func(context.Context) ([]backend.Product, int, error) {
	return func(ctx context.Context) ([]backend.Product, int, error) {
		page, err := h.client.AdminListProducts(ctx, token)
		if err != nil {
			return nil, 0, err
		}
		return backend.NormalizeProducts(page.Records, "en"), page.Total, nil
	}
}

func (h *AdminProductHandler) ensureLoaded(c *fiber.Ctx, token string) error {
	if h.store.Loaded() {
		return nil
	}
	items, total, err := h.reload(token)(c.UserContext())
	if err != nil {
		return backendError(err)
	}
	h.store.Replace(items, total)
	return nil
}

// ListProducts returns the admin product list with optional search and
// category narrowing, served from the local reconciled copy.
func (h *AdminProductHandler) ListProducts(c *fiber.Ctx) error {
	token, _ := middleware.GetBackendToken(c)
	if err := h.ensureLoaded(c, token); err != nil {
		return err
	}

	items, total := h.store.Items()

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category := strings.TrimSpace(c.Query("category"))

	filtered := make([]backend.Product, 0, len(items))
	for _, p := range items {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		filtered = append(filtered, p)
	}

	return c.JSON(fiber.Map{"success": true, "data": filtered, "total": total})
}

// RefreshProducts forces a foreground reload from the backend.
func (h *AdminProductHandler) RefreshProducts(c *fiber.Ctx) error {
	token, _ := middleware.GetBackendToken(c)
	items, total, err := h.reload(token)(c.UserContext())
	if err != nil {
		return backendError(err)
	}
	h.store.Replace(items, total)
	return c.JSON(fiber.Map{"success": true, "data": items, "total": total})
}

func (h *AdminProductHandler) save(c *fiber.Ctx, id int64) error {
	var form adminform.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := form.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	payload, err := form.Multipart()
	if err != nil {
		return err
	}

	token, _ := middleware.GetBackendToken(c)
	record, err := h.store.CreateOrUpdate(c.UserContext(), id,
		func(ctx context.Context) (*backend.Product, error) {
			raw, err := h.client.SaveProduct(ctx, token, id, payload)
			if err != nil {
				return nil, err
			}
			return backend.MapProductResponse(raw, "en"), nil
		},
		func(localID int64) backend.Product {
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

// CreateProduct creates a product from the admin form.
func (h *AdminProductHandler) CreateProduct(c *fiber.Ctx) error {
	return h.save(c, 0)
}

// UpdateProduct updates an existing product from the admin form.
func (h *AdminProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return h.save(c, id)
}

// DeleteProduct removes a product optimistically, rolling the list back when
// the backend refuses.
func (h *AdminProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	token, _ := middleware.GetBackendToken(c)
	err = h.store.Delete(c.UserContext(), id,
		func(ctx context.Context) error {
			return h.client.DeleteProduct(ctx, token, id)
		},
		h.reload(token),
	)
	if err != nil {
		return backendError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
