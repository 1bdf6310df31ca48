package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rewardsuite/rms-backend/internal/config"
	"github.com/rewardsuite/rms-backend/internal/handlers"
	"github.com/rewardsuite/rms-backend/internal/middleware"
	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/pkg/token"
)

// HandlerDependencies groups the handlers the router wires up
type HandlerDependencies struct {
	Tokens              *token.Service
	AuthHandler         *handlers.AuthHandler
	RewardPolicyHandler *handlers.RewardPolicyHandler
	SpinWheelHandler    *handlers.SpinWheelHandler
	CustomerHandler     *handlers.CustomerHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/admin/register", deps.AuthHandler.RegisterAdmin)
			auth.POST("/admin/login", deps.AuthHandler.LoginAdmin)
			auth.POST("/customer/register", deps.AuthHandler.RegisterCustomer)
			auth.POST("/customer/login", deps.AuthHandler.LoginCustomer)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.RequireRole(models.RoleAdmin))
	{
		policy := admin.Group("/reward-policy")
		{
			policy.POST("", deps.RewardPolicyHandler.CreateOrUpdatePolicy)
			policy.GET("", deps.RewardPolicyHandler.GetPolicy)
			policy.DELETE("", deps.RewardPolicyHandler.DeletePolicy)
			policy.PUT("/points-expiry", deps.RewardPolicyHandler.UpdatePointsExpiry)
			policy.POST("/thresholds", deps.RewardPolicyHandler.AddOrUpdateThreshold)
			policy.POST("/category-rules", deps.RewardPolicyHandler.AddOrUpdateCategoryRule)
			policy.POST("/tier-rules", deps.RewardPolicyHandler.AddOrUpdateTierRule)
			policy.GET("/tier-rules", deps.RewardPolicyHandler.GetTierRules)
			policy.GET("/summary", deps.RewardPolicyHandler.GetPolicySummary)
		}

		customers := admin.Group("/customers")
		{
			customers.GET("", deps.CustomerHandler.ListCustomers)
			customers.POST("/:id/purchases", deps.CustomerHandler.RecordPurchase)
			customers.POST("/:id/expire-points", deps.CustomerHandler.ExpirePoints)
		}
	}

	// Customer routes
	customer := router.Group("/api/v1")
	customer.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.RequireRole(models.RoleCustomer))
	{
		customer.GET("/customer/me", deps.CustomerHandler.GetMe)
		customer.GET("/customer/reward-policy", deps.CustomerHandler.GetMyPolicy)
		customer.POST("/customer/redeem", deps.CustomerHandler.Redeem)
		customer.POST("/spin-wheel/spin", deps.SpinWheelHandler.Spin)
	}

	return router
}
