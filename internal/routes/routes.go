package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/config"
	"github.com/example/autoshop/internal/handlers"
	"github.com/example/autoshop/internal/middleware"
	"github.com/example/autoshop/internal/session"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, client *backend.Client) {
	sessions := session.NewManager(db)

	shopHandler := handlers.NewShopHandler(client)
	cartHandler := handlers.NewCartHandler(db, client, cfg.TaxRate)
	checkoutHandler := handlers.NewCheckoutHandler(db, client, cartHandler, cfg.TaxRate)
	authHandler := handlers.NewAuthHandler(cfg, client, sessions)
	adminProducts := handlers.NewAdminProductHandler(client)
	adminTransports := handlers.NewAdminTransportHandler(client)
	adminOrders := handlers.NewAdminOrderHandler(client)

	api := app.Group("/api")

	// Public catalog
	products := api.Group("/products")
	products.Get("/", shopHandler.ListProducts)
	products.Get("/:id", shopHandler.GetProduct)
	products.Get("/:id/quote", shopHandler.QuoteProduct)

	// Cart
	cart := api.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Delete("/", cartHandler.ClearCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Patch("/items/:id", cartHandler.SetItemQty)
	cart.Post("/items/:id/increment", cartHandler.IncrementItem)
	cart.Post("/items/:id/decrement", cartHandler.DecrementItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Post("/coupon", cartHandler.ApplyCoupon)
	cart.Put("/transportation", cartHandler.SelectTransport)

	// Checkout
	api.Post("/checkout", checkoutHandler.Checkout)

	// Admin auth
	admin := api.Group("/admin")
	admin.Post("/login", authHandler.Login)

	// Protected admin console
	protected := admin.Group("", middleware.AuthMiddleware(cfg, sessions))
	protected.Post("/logout", authHandler.Logout)

	protected.Get("/products", adminProducts.ListProducts)
	protected.Post("/products", adminProducts.CreateProduct)
	protected.Post("/products/refresh", adminProducts.RefreshProducts)
	protected.Put("/products/:id", adminProducts.UpdateProduct)
	protected.Delete("/products/:id", adminProducts.DeleteProduct)

	protected.Get("/transportations", adminTransports.ListTransports)
	protected.Post("/transportations", adminTransports.CreateTransport)
	protected.Put("/transportations/:id", adminTransports.UpdateTransport)
	protected.Delete("/transportations/:id", adminTransports.DeleteTransport)

	protected.Get("/orders", adminOrders.ListOrders)
	protected.Post("/orders/refresh", adminOrders.RefreshOrders)
	protected.Patch("/orders/:id/status", adminOrders.UpdateOrderStatus)
}
