package router

import (
	"github.com/gin-gonic/gin"

	"guardpost.app/registry/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, requireAuth gin.HandlerFunc) {
	rg.GET("/url", h.GetAuthURL)
	rg.POST("/exchange", h.Exchange)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", requireAuth, h.Me)
}
