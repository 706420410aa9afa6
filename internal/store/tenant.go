package store

import (
	"context"

	"guardpost.app/registry/core/db/sqlc"
	"guardpost.app/registry/internal/model"
)

type tenantStore struct {
	queries *sqlc.Queries
}

func newTenantStore(queries *sqlc.Queries) TenantStore {
	return &tenantStore{queries: queries}
}

func (s *tenantStore) GetByID(ctx context.Context, id int64) (*model.Tenant, error) {
	row, err := s.queries.GetTenant(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return toTenantModel(row), nil
}

func (s *tenantStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.Tenant, error) {
	row, err := s.queries.GetTenantForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return toTenantModel(row), nil
}

func (s *tenantStore) List(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.queries.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	return toTenantModels(rows), nil
}

func (s *tenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	row, err := s.queries.CreateTenant(ctx, sqlc.CreateTenantParams{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Slug:        tenant.Slug,
		Description: tenant.Description,
		IsActive:    tenant.IsActive,
	})
	if err != nil {
		return mapError(err)
	}
	*tenant = *toTenantModel(row)
	return nil
}

// Update writes name, description and is_active in one statement. The slug
// column is never touched.
func (s *tenantStore) Update(ctx context.Context, tenant *model.Tenant) error {
	row, err := s.queries.UpdateTenant(ctx, sqlc.UpdateTenantParams{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Description: tenant.Description,
		IsActive:    tenant.IsActive,
	})
	if err != nil {
		return mapError(err)
	}
	*tenant = *toTenantModel(row)
	return nil
}

func (s *tenantStore) Delete(ctx context.Context, id int64) error {
	_, err := s.queries.DeleteTenant(ctx, id)
	return mapError(err)
}

func toTenantModel(row sqlc.Tenant) *model.Tenant {
	return &model.Tenant{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func toTenantModels(rows []sqlc.Tenant) []model.Tenant {
	result := make([]model.Tenant, len(rows))
	for i, row := range rows {
		result[i] = *toTenantModel(row)
	}
	return result
}
