package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/config"
	"github.com/example/autoshop/internal/database"
	"github.com/example/autoshop/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	client := backend.New(cfg.BackendURL, cfg.BackendToken)

	app := fiber.New(fiber.Config{
		AppName: "Autoshop Storefront",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, client)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
