package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/checkout"
	"github.com/example/autoshop/internal/shipping"
)

// CheckoutHandler turns a cart into a backend order.
type CheckoutHandler struct {
	db      *gorm.DB
	client  *backend.Client
	cart    *CartHandler
	taxRate float64
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, client *backend.Client, cartHandler *CartHandler, taxRate float64) *CheckoutHandler {
	return &CheckoutHandler{db: db, client: client, cart: cartHandler, taxRate: taxRate}
}

// Checkout validates the customer block, submits the order, and clears the
// cart once the backend accepts it.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var customer checkout.CustomerForm
	if err := c.BodyParser(&customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := customer.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	record, err := h.cart.loadCart(c)
	if err != nil {
		return err
	}
	state := record.State()
	if len(state.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	var ratePtr *shipping.Rate
	if selected, ok := shipping.SelectRate(h.cart.rates(c.UserContext()), record.TransportKey); ok {
		ratePtr = &selected
	}
	summary := state.Totals(ratePtr, h.taxRate)

	payload := checkout.BuildOrderPayload(state, summary, ratePtr, customer)
	order, err := h.client.CreateOrder(c.UserContext(), payload)
	if err != nil {
		return backendError(err)
	}

	record.TransportKey = ""
	if err := h.cart.persist(record, state.Clear()); err != nil {
		// The order is already placed; surface nothing to the customer.
		log.Printf("failed to clear cart after checkout: %v", err)
	}

	response := fiber.Map{"success": true}
	if order != nil {
		response["data"] = order
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}
