package main

import (
	"log"

	"secureinvestor/config"
	"secureinvestor/database"
	adminRoutes "secureinvestor/routers/adminRoutes"
	authRoutes "secureinvestor/routers/authRoutes"
	documentRoutes "secureinvestor/routers/documentRoutes"
	mfaRoutes "secureinvestor/routers/mfaRoutes"
	"secureinvestor/storage"
	"secureinvestor/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	storage.Connect()

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // document uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	mfaRoutes.SetupMFARoutes(app)
	documentRoutes.SetupDocumentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	utils.StartRetentionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
