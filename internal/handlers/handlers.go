package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/backend"
)

// langFrom reads the storefront language from the query, defaulting to
// English. Only English and Arabic exist in the catalog data.
func langFrom(c *fiber.Ctx) string {
	if c.Query("lang") == "ar" {
		return "ar"
	}
	return "en"
}

// backendError translates backend client failures into fiber errors so the
// remote status and message survive to the response.
func backendError(err error) error {
	if errors.Is(err, backend.ErrTimeout) {
		return fiber.NewError(fiber.StatusGatewayTimeout, backend.ErrTimeout.Error())
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(apiErr.Status, apiErr.Message)
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
