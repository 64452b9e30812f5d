package routers

import (
	accountController "payhook/controllers/account"
	authController "payhook/controllers/auth"
	paymentController "payhook/controllers/payment"
	userController "payhook/controllers/user"
	"payhook/config"
	"payhook/middleware"
	"payhook/routers/accountRoutes"
	"payhook/routers/authRoutes"
	"payhook/routers/paymentRoutes"
	"payhook/routers/userRoutes"
	"payhook/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// NewApp wires services, controllers and routes on a new Fiber app
func NewApp(cfg *config.Config, db *gorm.DB) *fiber.App {
	users := services.NewUserService(db, cfg.SaltRound)
	ledger := services.NewLedger(db)
	payments := services.NewPaymentRecorder(db)
	jwt := middleware.NewJWTManager(cfg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	api := app.Group("/api/v1")

	authRoutes.SetupAuthRoutes(api, &authController.Controller{Users: users, JWT: jwt})
	userRoutes.SetupUserRoutes(api, &userController.Controller{Users: users, Ledger: ledger, Payments: payments}, jwt)
	accountRoutes.SetupAccountRoutes(api, &accountController.Controller{Users: users, Ledger: ledger}, jwt)
	paymentRoutes.SetupPaymentRoutes(api, &paymentController.Controller{
		Webhooks: services.NewWebhookProcessor(db, cfg.WebhookSecretKey),
		Stats:    services.NewPaymentStats(db),
	}, jwt, users)

	return app
}
