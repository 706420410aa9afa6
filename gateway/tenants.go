package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const tenantsPath = "/api/v1/tenants"

type Tenant struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTenantRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateTenantRequest sends only the non-nil fields.
type UpdateTenantRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type TenantsClient struct {
	c *Client
}

func (c *Client) Tenants() *TenantsClient {
	return &TenantsClient{c: c}
}

func (t *TenantsClient) List(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	if err := t.c.Request(ctx, tenantsPath, RequestOptions{}, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (t *TenantsClient) Get(ctx context.Context, id int64) (*Tenant, error) {
	var tenant Tenant
	if err := t.c.Request(ctx, tenantPath(id), RequestOptions{}, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (t *TenantsClient) Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	opts := RequestOptions{Method: http.MethodPost, Body: req}
	if err := t.c.Request(ctx, tenantsPath, opts, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (t *TenantsClient) Update(ctx context.Context, id int64, req UpdateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	opts := RequestOptions{Method: http.MethodPut, Body: req}
	if err := t.c.Request(ctx, tenantPath(id), opts, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (t *TenantsClient) Delete(ctx context.Context, id int64) error {
	return t.c.Request(ctx, tenantPath(id), RequestOptions{Method: http.MethodDelete}, nil)
}

func tenantPath(id int64) string {
	return tenantsPath + "/" + strconv.FormatInt(id, 10)
}
