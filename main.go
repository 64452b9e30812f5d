package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"payhook/config"
	"payhook/database"
	"payhook/models"
	"payhook/routers"
	"payhook/services"
	"payhook/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seedDefaultUsers(cfg, services.NewUserService(db, cfg.SaltRound))

	scheduler, err := utils.InitializePaymentScheduler(services.NewPaymentStats(db), cfg.PaymentSummaryCron)
	if err != nil {
		log.Fatalf("Failed to start payment scheduler: %v", err)
	}

	app := routers.NewApp(cfg, db)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	<-scheduler.Stop().Done()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}

// seedDefaultUsers creates the configured admin and user accounts when missing
func seedDefaultUsers(cfg *config.Config, users *services.UserService) {
	seeds := []struct {
		email, password, fullName string
		role                      models.Role
	}{
		{cfg.DefaultAdminEmail, cfg.DefaultAdminPassword, cfg.DefaultAdminFullName, models.RoleAdmin},
		{cfg.DefaultUserEmail, cfg.DefaultUserPassword, cfg.DefaultUserFullName, models.RoleUser},
	}

	for _, s := range seeds {
		if s.email == "" || s.password == "" {
			continue
		}
		user, created, err := users.EnsureUser(context.Background(), s.email, s.password, s.fullName, s.role)
		if err != nil {
			log.Printf("Error seeding %s user %s: %v", s.role, s.email, err)
			continue
		}
		if created {
			log.Printf("Seeded %s user %d: %s", s.role, user.ID, user.Email)
		}
	}
}
