package service

import (
	"time"

	"guardpost.app/registry/internal/queue"
	"guardpost.app/registry/internal/store"
)

type Services struct {
	tenants TenantService
	auth    AuthService
}

func NewServices(
	stores *store.Stores,
	txRunner TxRunner,
	events queue.Producer,
	identity IdentityProvider,
	sessionCache *SessionCache,
	sessionTTL time.Duration,
) *Services {
	return &Services{
		tenants: NewTenantService(txRunner, stores.Tenants(), events),
		auth:    NewAuthService(txRunner, stores.Users(), stores.Sessions(), identity, sessionCache, sessionTTL),
	}
}

func (s *Services) Tenants() TenantService {
	return s.tenants
}

func (s *Services) Auth() AuthService {
	return s.auth
}
