package store

import (
	"context"

	"guardpost.app/registry/internal/model"
)

// TenantStore defines the contract for tenant data access. Mutating calls
// are expected to run on queries bound to a transaction.
type TenantStore interface {
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	// GetByIDForUpdate row-locks the tenant until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, id int64) error
}

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetValidByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) // checks expiry
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
