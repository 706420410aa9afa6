package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"guardpost.app/registry/common"
	"guardpost.app/registry/common/id"
	"guardpost.app/registry/common/logger"
	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/queue"
	"guardpost.app/registry/internal/store"
)

const MaxTenantNameLength = 255

type CreateTenantInput struct {
	Name        string
	Description *string
	IsActive    *bool
}

// TenantPatch carries the fields of a partial update. A nil field is left
// untouched.
type TenantPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
}

func (p TenantPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.IsActive == nil
}

// Apply copies the present fields onto t. Slug is never touched.
func (p TenantPatch) Apply(t *model.Tenant) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
}

type TenantService interface {
	List(ctx context.Context) ([]model.Tenant, error)
	Get(ctx context.Context, id int64) (*model.Tenant, error)
	Create(ctx context.Context, input CreateTenantInput) (*model.Tenant, error)
	Update(ctx context.Context, id int64, patch TenantPatch) (*model.Tenant, error)
	Delete(ctx context.Context, id int64) error
}

type tenantService struct {
	txRunner TxRunner
	tenants  store.TenantStore
	events   queue.Producer
	now      func() time.Time
}

// NewTenantService builds the tenant registry. Reads go through tenants,
// mutations through txRunner. A nil events producer disables publishing.
func NewTenantService(txRunner TxRunner, tenants store.TenantStore, events queue.Producer) TenantService {
	return &tenantService{
		txRunner: txRunner,
		tenants:  tenants,
		events:   events,
		now:      time.Now,
	}
}

func (s *tenantService) List(ctx context.Context) ([]model.Tenant, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tenants", "error", err)
		return nil, &OperationFailedError{Op: "list tenants", Err: err}
	}
	return tenants, nil
}

func (s *tenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{TenantID: &id})

	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		slog.ErrorContext(ctx, "failed to get tenant", "error", err)
		return nil, &OperationFailedError{Op: "get tenant", Err: err}
	}
	return tenant, nil
}

func (s *tenantService) Create(ctx context.Context, input CreateTenantInput) (*model.Tenant, error) {
	sc := logger.StartSpan(ctx, "tenant.create")
	defer sc.End()
	ctx = sc.Context()

	name, err := validateTenantName(input.Name)
	if err != nil {
		return nil, err
	}

	var created *model.Tenant
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		slug, err := common.Slugify(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTenant, err)
		}

		tenant := &model.Tenant{
			ID:          id.New(),
			Name:        name,
			Slug:        slug,
			Description: deref(input.Description, ""),
			IsActive:    deref(input.IsActive, true),
		}
		if err := stores.Tenants().Create(ctx, tenant); err != nil {
			return fmt.Errorf("creating tenant: %w", err)
		}

		created = tenant
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, s.failure(ctx, "create tenant", err)
	}

	sc.SetAttributes(attribute.Int64("tenant_id", created.ID))
	ctx = logger.WithLogFields(ctx, logger.LogFields{TenantID: &created.ID})
	slog.InfoContext(ctx, "tenant created", "slug", created.Slug)

	s.publish(ctx, queue.TenantCreated, created)
	return created, nil
}

func (s *tenantService) Update(ctx context.Context, id int64, patch TenantPatch) (*model.Tenant, error) {
	sc := logger.StartSpan(ctx, "tenant.update")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{TenantID: &id})

	if patch.Name != nil {
		if _, err := validateTenantName(*patch.Name); err != nil {
			return nil, err
		}
	}

	var updated *model.Tenant
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		tenants := stores.Tenants()

		tenant, err := tenants.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("locking tenant: %w", err)
		}

		patch.Apply(tenant)

		if err := tenants.Update(ctx, tenant); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("updating tenant: %w", err)
		}

		updated = tenant
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, s.failure(ctx, "update tenant", err)
	}

	slog.InfoContext(ctx, "tenant updated", "is_active", updated.IsActive)

	s.publish(ctx, queue.TenantUpdated, updated)
	return updated, nil
}

func (s *tenantService) Delete(ctx context.Context, id int64) error {
	sc := logger.StartSpan(ctx, "tenant.delete")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{TenantID: &id})

	var deleted *model.Tenant
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		tenants := stores.Tenants()

		tenant, err := tenants.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("locking tenant: %w", err)
		}

		if err := tenants.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("deleting tenant: %w", err)
		}

		deleted = tenant
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return s.failure(ctx, "delete tenant", err)
	}

	slog.InfoContext(ctx, "tenant deleted", "slug", deleted.Slug)

	s.publish(ctx, queue.TenantDeleted, deleted)
	return nil
}

// failure maps an error returned from a rolled back transaction onto the
// service taxonomy.
func (s *tenantService) failure(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrInvalidTenant):
		return err
	case errors.Is(err, store.ErrConflict):
		slog.WarnContext(ctx, "tenant write conflicted", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrTenantConflict, err)
	default:
		slog.ErrorContext(ctx, "tenant operation failed", "op", op, "error", err)
		return &OperationFailedError{Op: op, Err: err}
	}
}

func (s *tenantService) publish(ctx context.Context, eventType queue.EventType, tenant *model.Tenant) {
	if s.events == nil {
		return
	}

	event := queue.TenantEvent{
		Type:       eventType,
		TenantID:   tenant.ID,
		Slug:       tenant.Slug,
		IsActive:   tenant.IsActive,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish tenant event",
			"error", err,
			"event_type", eventType)
	}
}

func validateTenantName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidTenant)
	}
	if utf8.RuneCountInString(name) > MaxTenantNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidTenant, MaxTenantNameLength)
	}
	return name, nil
}

func deref[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
