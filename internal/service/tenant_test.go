package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"guardpost.app/registry/common"
	"guardpost.app/registry/common/id"
	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/queue"
	"guardpost.app/registry/internal/service"
	"guardpost.app/registry/internal/store"
)

var _ = Describe("TenantService", func() {
	var (
		ctx context.Context
		now time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
		Expect(id.Init(1)).To(Succeed())
	})

	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	Context("against an in-memory table", func() {
		var (
			db       *memTenantDB
			producer *mockProducer
			svc      service.TenantService
		)

		BeforeEach(func() {
			db = newMemTenantDB(clock)
			producer = &mockProducer{}
			svc = service.NewTenantService(db, db.Reads(), producer)
		})

		It("creates a tenant with derived slug and defaults", func() {
			tenant, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme Corp"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.ID).NotTo(BeZero())
			Expect(tenant.Name).To(Equal("Acme Corp"))
			Expect(tenant.Slug).To(Equal("acme-corp"))
			Expect(tenant.Description).To(BeEmpty())
			Expect(tenant.IsActive).To(BeTrue())
			Expect(tenant.UpdatedAt).NotTo(BeTemporally("<", tenant.CreatedAt))
		})

		It("strips characters outside the slug alphabet", func() {
			tenant, err := svc.Create(ctx, service.CreateTenantInput{Name: "Café 24/7!!"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.Slug).To(Equal("caf-247"))
		})

		It("gives identical names identical slugs", func() {
			first, err := svc.Create(ctx, service.CreateTenantInput{Name: "Northwind Security"})
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.Create(ctx, service.CreateTenantInput{Name: "Northwind Security"})
			Expect(err).NotTo(HaveOccurred())

			Expect(first.ID).NotTo(Equal(second.ID))
			Expect(first.Slug).To(Equal(second.Slug))
		})

		It("honours explicit description and inactive flag", func() {
			tenant, err := svc.Create(ctx, service.CreateTenantInput{
				Name:        "Harbor Patrol",
				Description: strPtr("night shift contract"),
				IsActive:    boolPtr(false),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.Description).To(Equal("night shift contract"))
			Expect(tenant.IsActive).To(BeFalse())
		})

		It("publishes a created event after commit", func() {
			tenant, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			Expect(producer.published).To(HaveLen(1))
			Expect(producer.published[0].Type).To(Equal(queue.TenantCreated))
			Expect(producer.published[0].TenantID).To(Equal(tenant.ID))
			Expect(producer.published[0].Slug).To(Equal("acme"))
		})

		It("keeps the committed tenant when publishing fails", func() {
			producer.publishFn = func(context.Context, queue.TenantEvent) error {
				return errors.New("redis down")
			}

			tenant, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.Get(ctx, tenant.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Acme"))
		})

		It("updates only the fields present in the patch", func() {
			created, err := svc.Create(ctx, service.CreateTenantInput{
				Name:        "Acme Corp",
				Description: strPtr("HQ"),
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.Update(ctx, created.ID, service.TenantPatch{IsActive: boolPtr(false)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
			Expect(updated.Name).To(Equal("Acme Corp"))
			Expect(updated.Description).To(Equal("HQ"))
			Expect(updated.Slug).To(Equal("acme-corp"))
			Expect(updated.UpdatedAt).To(BeTemporally(">", created.UpdatedAt))
			Expect(updated.UpdatedAt).NotTo(BeTemporally("<", updated.CreatedAt))
		})

		It("does not recompute the slug on rename", func() {
			created, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme Corp"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.Update(ctx, created.ID, service.TenantPatch{Name: strPtr("Globex")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Globex"))
			Expect(updated.Slug).To(Equal("acme-corp"))
		})

		It("refreshes updated_at on an empty patch", func() {
			created, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.Update(ctx, created.ID, service.TenantPatch{})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.UpdatedAt).To(BeTemporally(">", created.UpdatedAt))
			Expect(updated.Name).To(Equal(created.Name))
		})

		It("leaves the record unchanged when the update fails", func() {
			created, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			db.failUpdates = errors.New("connection reset")
			_, err = svc.Update(ctx, created.ID, service.TenantPatch{
				Name:     strPtr("Globex"),
				IsActive: boolPtr(false),
			})
			Expect(err).To(MatchError(service.ErrOperationFailed))

			var opErr *service.OperationFailedError
			Expect(errors.As(err, &opErr)).To(BeTrue())
			Expect(opErr.Op).To(Equal("update tenant"))

			got, err := svc.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(created))
		})

		It("returns not found when updating a missing tenant", func() {
			_, err := svc.Update(ctx, 42, service.TenantPatch{Name: strPtr("Ghost")})
			Expect(err).To(MatchError(service.ErrTenantNotFound))
		})

		It("deletes a tenant so a later get is not found", func() {
			created, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Delete(ctx, created.ID)).To(Succeed())

			_, err = svc.Get(ctx, created.ID)
			Expect(err).To(MatchError(service.ErrTenantNotFound))

			Expect(producer.published).To(HaveLen(2))
			Expect(producer.published[1].Type).To(Equal(queue.TenantDeleted))
			Expect(producer.published[1].Slug).To(Equal("acme"))
		})

		It("returns not found when deleting a missing tenant", func() {
			Expect(svc.Delete(ctx, 7)).To(MatchError(service.ErrTenantNotFound))
			Expect(producer.published).To(BeEmpty())
		})

		It("does not mutate anything when getting a missing tenant", func() {
			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
			before, err := svc.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Get(ctx, 999)
			Expect(err).To(MatchError(service.ErrTenantNotFound))

			after, err := svc.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("lists every tenant", func() {
			for _, name := range []string{"Acme", "Globex", "Initech"} {
				_, err := svc.Create(ctx, service.CreateTenantInput{Name: name})
				Expect(err).NotTo(HaveOccurred())
			}

			tenants, err := svc.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tenants).To(HaveLen(3))
		})

		It("works without an event producer", func() {
			svc = service.NewTenantService(db, db.Reads(), nil)
			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("validation", func() {
		var (
			tenants *mockTenantStore
			tx      *mockTxRunner
			svc     service.TenantService
		)

		BeforeEach(func() {
			tenants = &mockTenantStore{}
			tx = &mockTxRunner{
				withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
					return fn(&mockStoreProvider{tenants: tenants})
				},
			}
			svc = service.NewTenantService(tx, tenants, nil)
		})

		DescribeTable("rejects invalid names before opening a transaction",
			func(name string) {
				_, err := svc.Create(ctx, service.CreateTenantInput{Name: name})
				Expect(err).To(MatchError(service.ErrInvalidTenant))
				Expect(tx.calls).To(BeZero())
			},
			Entry("empty", ""),
			Entry("whitespace only", "   "),
			Entry("too long", strings.Repeat("a", service.MaxTenantNameLength+1)),
		)

		It("fails the slug step for names without slug characters", func() {
			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "!!!"})
			Expect(err).To(MatchError(service.ErrInvalidTenant))
			Expect(err).To(MatchError(common.ErrEmptySlug))
			Expect(tenants.createCalls).To(BeZero())
		})

		It("trims surrounding whitespace from the name", func() {
			tenants.createFn = func(_ context.Context, tenant *model.Tenant) error {
				Expect(tenant.Name).To(Equal("Acme Corp"))
				Expect(tenant.Slug).To(Equal("acme-corp"))
				return nil
			}

			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "  Acme Corp  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(tenants.createCalls).To(Equal(1))
		})

		It("rejects a patch that blanks the name", func() {
			_, err := svc.Update(ctx, 1, service.TenantPatch{Name: strPtr(" ")})
			Expect(err).To(MatchError(service.ErrInvalidTenant))
			Expect(tenants.updateCalls).To(BeZero())
		})
	})

	Context("storage failures", func() {
		var (
			tenants *mockTenantStore
			svc     service.TenantService
		)

		BeforeEach(func() {
			tenants = &mockTenantStore{}
			svc = service.NewTenantService(&mockTxRunner{
				withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
					return fn(&mockStoreProvider{tenants: tenants})
				},
			}, tenants, nil)
		})

		It("maps unique violations to a conflict", func() {
			tenants.createFn = func(context.Context, *model.Tenant) error {
				return errors.Join(store.ErrConflict, errors.New("duplicate key"))
			}

			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).To(MatchError(service.ErrTenantConflict))
			Expect(errors.Is(err, service.ErrOperationFailed)).To(BeFalse())
		})

		It("wraps other create failures as operation failed", func() {
			tenants.createFn = func(context.Context, *model.Tenant) error {
				return errors.New("connection refused")
			}

			_, err := svc.Create(ctx, service.CreateTenantInput{Name: "Acme"})
			Expect(err).To(MatchError(service.ErrOperationFailed))
			Expect(err.Error()).To(ContainSubstring("connection refused"))
		})

		It("wraps list failures as operation failed", func() {
			tenants.listFn = func(context.Context) ([]model.Tenant, error) {
				return nil, errors.New("timeout")
			}

			_, err := svc.List(ctx)
			Expect(err).To(MatchError(service.ErrOperationFailed))
		})

		It("does not delete when the lock fails", func() {
			tenants.getByIDForUpdateFn = func(context.Context, int64) (*model.Tenant, error) {
				return nil, errors.New("lock timeout")
			}

			err := svc.Delete(ctx, 1)
			Expect(err).To(MatchError(service.ErrOperationFailed))
			Expect(tenants.deleteCalls).To(BeZero())
		})
	})
})
