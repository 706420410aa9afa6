package router

import (
	"github.com/gin-gonic/gin"

	"guardpost.app/registry/internal/http/handler"
)

func TenantRouter(rg *gin.RouterGroup, h *handler.TenantHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
