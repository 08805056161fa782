package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/anikets94/fundraising-management-backend/config"
	"github.com/anikets94/fundraising-management-backend/database"
	"github.com/anikets94/fundraising-management-backend/internal/auditlog"
	"github.com/anikets94/fundraising-management-backend/internal/profitsharing"
	"github.com/anikets94/fundraising-management-backend/middleware"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Audit middleware to capture IP

	// ========== Initialize Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	auditRoutes := api.Group("/auditlogs")
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Profit Sharing ==========
	psRepo := profitsharing.NewRepository(database.DB)
	psSvc := profitsharing.NewService(psRepo, cfg, auditSvc)
	psHandler := profitsharing.NewHandler(psSvc)

	ps := api.Group("/profit-sharing")
	{
		// Eligibility and pool inspection
		ps.GET("/seasons/:id/eligibility", psHandler.CheckEligibility)
		ps.GET("/seasons/:id/eligible-donors", psHandler.GetEligibleDonors)

		// Execution
		ps.POST("/seasons/:id/execute", psHandler.Execute)
		ps.POST("/seasons/:id/simulate", psHandler.Simulate)
		ps.GET("/seasons/:id/runs", psHandler.ListRuns)

		// Aggregate views
		ps.GET("/summary", psHandler.GetSummary)
		ps.GET("/campaigns/:id/stats", psHandler.GetCampaignStats)
	}
}
