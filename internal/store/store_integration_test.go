//go:build integration

package store_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"guardpost.app/registry/common/id"
	"guardpost.app/registry/core/db/sqlc"
	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/service"
	"guardpost.app/registry/internal/store"
)

var _ = Describe("TenantStore", func() {
	var tenants store.TenantStore

	BeforeEach(func() {
		tenants = store.NewStores(database.Queries()).Tenants()
	})

	create := func(ctx context.Context, name, slug string) *model.Tenant {
		tenant := &model.Tenant{ID: id.New(), Name: name, Slug: slug, IsActive: true}
		Expect(tenants.Create(ctx, tenant)).To(Succeed())
		return tenant
	}

	It("persists a tenant with database timestamps", func(ctx SpecContext) {
		tenant := create(ctx, "Acme Corp", "acme-corp")
		Expect(tenant.CreatedAt).NotTo(BeZero())
		Expect(tenant.UpdatedAt).NotTo(BeTemporally("<", tenant.CreatedAt))

		got, err := tenants.GetByID(ctx, tenant.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Slug).To(Equal("acme-corp"))
		Expect(got.Description).To(BeEmpty())
	})

	It("allows duplicate names and slugs", func(ctx SpecContext) {
		create(ctx, "Acme", "acme")
		create(ctx, "Acme", "acme")

		all, err := tenants.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("lists tenants in creation order", func(ctx SpecContext) {
		first := create(ctx, "First", "first")
		second := create(ctx, "Second", "second")

		all, err := tenants.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all[0].ID).To(Equal(first.ID))
		Expect(all[1].ID).To(Equal(second.ID))
	})

	It("never rewrites the slug on update", func(ctx SpecContext) {
		tenant := create(ctx, "Acme Corp", "acme-corp")
		tenant.Name = "Globex"
		tenant.Slug = "globex"

		Expect(tenants.Update(ctx, tenant)).To(Succeed())
		Expect(tenant.Slug).To(Equal("acme-corp"))
		Expect(tenant.Name).To(Equal("Globex"))
		Expect(tenant.UpdatedAt).NotTo(BeTemporally("<", tenant.CreatedAt))
	})

	It("reports missing rows as not found", func(ctx SpecContext) {
		_, err := tenants.GetByID(ctx, 12345)
		Expect(err).To(MatchError(store.ErrNotFound))

		Expect(tenants.Delete(ctx, 12345)).To(MatchError(store.ErrNotFound))
		Expect(tenants.Update(ctx, &model.Tenant{ID: 12345, Name: "x"})).To(MatchError(store.ErrNotFound))
	})

	It("rolls back every write when the transaction fails", func(ctx SpecContext) {
		tenant := create(ctx, "Acme", "acme")
		boom := errors.New("boom")

		err := database.WithTx(ctx, func(q *sqlc.Queries) error {
			txTenants := store.NewStores(q).Tenants()
			locked, err := txTenants.GetByIDForUpdate(ctx, tenant.ID)
			if err != nil {
				return err
			}
			locked.Name = "Globex"
			locked.IsActive = false
			if err := txTenants.Update(ctx, locked); err != nil {
				return err
			}
			return boom
		})
		Expect(err).To(MatchError(boom))

		got, err := tenants.GetByID(ctx, tenant.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("Acme"))
		Expect(got.IsActive).To(BeTrue())
		Expect(got.UpdatedAt).To(BeTemporally("==", tenant.UpdatedAt))
	})

	It("serializes concurrent updates of one tenant", func(ctx SpecContext) {
		tenant := create(ctx, "Acme", "acme")
		svc := service.NewTenantService(service.NewTxRunner(database), tenants, nil)

		done := make(chan error, 2)
		for _, name := range []string{"Globex", "Initech"} {
			go func(name string) {
				_, err := svc.Update(context.Background(), tenant.ID, service.TenantPatch{Name: &name})
				done <- err
			}(name)
		}
		Expect(<-done).To(Succeed())
		Expect(<-done).To(Succeed())

		got, err := tenants.GetByID(ctx, tenant.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(BeElementOf("Globex", "Initech"))
		Expect(got.Slug).To(Equal("acme"))
	})
})

var _ = Describe("TenantService against Postgres", func() {
	var svc service.TenantService

	BeforeEach(func() {
		svc = service.NewTenantService(
			service.NewTxRunner(database),
			store.NewStores(database.Queries()).Tenants(),
			nil,
		)
	})

	It("runs the full tenant lifecycle", func(ctx SpecContext) {
		created, err := svc.Create(ctx, service.CreateTenantInput{Name: "Café 24/7!!"})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Slug).To(Equal("caf-247"))
		Expect(created.IsActive).To(BeTrue())

		inactive := false
		updated, err := svc.Update(ctx, created.ID, service.TenantPatch{IsActive: &inactive})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Name).To(Equal("Café 24/7!!"))
		Expect(updated.IsActive).To(BeFalse())
		Expect(updated.UpdatedAt).NotTo(BeTemporally("<", updated.CreatedAt))

		Expect(svc.Delete(ctx, created.ID)).To(Succeed())
		_, err = svc.Get(ctx, created.ID)
		Expect(err).To(MatchError(service.ErrTenantNotFound))
		Expect(svc.Delete(ctx, created.ID)).To(MatchError(service.ErrTenantNotFound))
	})

	It("rolls back a failed slug step", func(ctx SpecContext) {
		_, err := svc.Create(ctx, service.CreateTenantInput{Name: "???"})
		Expect(err).To(MatchError(service.ErrInvalidTenant))

		all, err := svc.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})
})

var _ = Describe("SessionStore", func() {
	var (
		stores *store.Stores
		user   *model.User
	)

	BeforeEach(func(ctx SpecContext) {
		stores = store.NewStores(database.Queries())
		workosID := "user_01"
		user = &model.User{ID: id.New(), Name: "Ops", Email: "ops@example.com", WorkOSID: &workosID}
		Expect(stores.Users().UpsertByWorkOSID(ctx, user)).To(Succeed())
	})

	It("keeps the original user id on repeated upserts", func(ctx SpecContext) {
		workosID := "user_01"
		again := &model.User{ID: id.New(), Name: "Ops Lead", Email: "ops@example.com", WorkOSID: &workosID}
		Expect(stores.Users().UpsertByWorkOSID(ctx, again)).To(Succeed())
		Expect(again.ID).To(Equal(user.ID))
		Expect(again.Name).To(Equal("Ops Lead"))
	})

	It("finds live sessions by token hash only", func(ctx SpecContext) {
		live := &model.Session{ID: id.New(), UserID: user.ID, TokenHash: "live-hash", ExpiresAt: time.Now().Add(time.Hour)}
		expired := &model.Session{ID: id.New(), UserID: user.ID, TokenHash: "old-hash", ExpiresAt: time.Now().Add(-time.Hour)}
		Expect(stores.Sessions().Create(ctx, live)).To(Succeed())
		Expect(stores.Sessions().Create(ctx, expired)).To(Succeed())

		got, err := stores.Sessions().GetValidByTokenHash(ctx, "live-hash")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(live.ID))

		_, err = stores.Sessions().GetValidByTokenHash(ctx, "old-hash")
		Expect(err).To(MatchError(store.ErrNotFound))

		n, err := stores.Sessions().DeleteExpired(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))
	})

	It("treats deleting an unknown token as success", func(ctx SpecContext) {
		Expect(stores.Sessions().DeleteByTokenHash(ctx, "nope")).To(Succeed())
	})

	It("maps duplicate token hashes to a conflict", func(ctx SpecContext) {
		first := &model.Session{ID: id.New(), UserID: user.ID, TokenHash: "dup", ExpiresAt: time.Now().Add(time.Hour)}
		second := &model.Session{ID: id.New(), UserID: user.ID, TokenHash: "dup", ExpiresAt: time.Now().Add(time.Hour)}
		Expect(stores.Sessions().Create(ctx, first)).To(Succeed())
		Expect(stores.Sessions().Create(ctx, second)).To(MatchError(store.ErrConflict))
	})
})
