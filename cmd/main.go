package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anikets94/fundraising-management-backend/config"
	"github.com/anikets94/fundraising-management-backend/database"
	"github.com/anikets94/fundraising-management-backend/internal/auditlog"
	"github.com/anikets94/fundraising-management-backend/internal/campaign"
	"github.com/anikets94/fundraising-management-backend/internal/donation"
	"github.com/anikets94/fundraising-management-backend/internal/donor"
	"github.com/anikets94/fundraising-management-backend/internal/profitsharing"
	"github.com/anikets94/fundraising-management-backend/routes"
	"github.com/anikets94/fundraising-management-backend/schedule"
	"github.com/anikets94/fundraising-management-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka()
	defer utils.CloseKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&campaign.Campaign{},
		&campaign.Season{},
		&donor.Donor{},
		&donation.Donation{},
		&auditlog.AuditLog{},
		&profitsharing.DistributionRun{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Campaign stats cache refresher
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)
	psRepo := profitsharing.NewRepository(db)
	psSvc := profitsharing.NewService(psRepo, cfg, auditSvc)

	statsCron := schedule.StartStatsRefresh(psSvc, cfg)
	defer statsCron.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Register routes
	routes.Setup(router, cfg)

	// Start server
	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
