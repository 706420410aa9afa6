package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"guardpost.app/registry/internal/http/dto"
	"guardpost.app/registry/internal/service"
)

type TenantHandler struct {
	tenantService service.TenantService
}

func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	tenants, err := h.tenantService.List(ctx)
	if err != nil {
		writeTenantError(c, err, "failed to list tenants")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponses(tenants))
}

func (h *TenantHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := tenantID(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.Get(ctx, id)
	if err != nil {
		writeTenantError(c, err, "failed to get tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *TenantHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid tenant request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantService.Create(ctx, req.ToInput())
	if err != nil {
		writeTenantError(c, err, "failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

func (h *TenantHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := tenantID(c)
	if !ok {
		return
	}

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid tenant update body", "error", err, "tenant_id", id)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantService.Update(ctx, id, req.ToPatch())
	if err != nil {
		writeTenantError(c, err, "failed to update tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *TenantHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := tenantID(c)
	if !ok {
		return
	}

	if err := h.tenantService.Delete(ctx, id); err != nil {
		writeTenantError(c, err, "failed to delete tenant")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "tenant deleted"})
}

func tenantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return 0, false
	}
	return id, true
}

func writeTenantError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
	case errors.Is(err, service.ErrInvalidTenant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTenantConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "tenant conflicts with an existing record"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
