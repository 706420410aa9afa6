package router

import (
	"github.com/gin-gonic/gin"

	"guardpost.app/registry/internal/http/handler"
	"guardpost.app/registry/internal/http/middleware"
	"guardpost.app/registry/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(services.Auth())

	authHandler := handler.NewAuthHandler(services.Auth())
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	v1 := router.Group("/api/v1", requireAuth)
	{
		tenantHandler := handler.NewTenantHandler(services.Tenants())
		TenantRouter(v1.Group("/tenants"), tenantHandler)
	}
}
