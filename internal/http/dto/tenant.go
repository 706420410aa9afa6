package dto

import (
	"time"

	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/service"
)

type CreateTenantRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r CreateTenantRequest) ToInput() service.CreateTenantInput {
	return service.CreateTenantInput{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

// UpdateTenantRequest is a partial update; absent fields keep their value.
type UpdateTenantRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r UpdateTenantRequest) ToPatch() service.TenantPatch {
	return service.TenantPatch{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

type TenantResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToTenantResponse(t *model.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTenantResponses(tenants []model.Tenant) []TenantResponse {
	resp := make([]TenantResponse, len(tenants))
	for i := range tenants {
		resp[i] = *ToTenantResponse(&tenants[i])
	}
	return resp
}

type MessageResponse struct {
	Message string `json:"message"`
}
