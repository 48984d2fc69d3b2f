// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

//go:build integration

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/coursehub/coursehub/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var m *store.Migrator

	BeforeAll(func() {
		var err error
		m, err = store.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(m.Close()).To(Succeed()) })
	})

	It("starts with every migration pending", func() {
		status, err := m.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Version).To(BeZero())
		Expect(status.Applied).To(BeEmpty())

		all, err := store.EmbeddedMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Pending).To(Equal(all))
	})

	It("applies all migrations and is idempotent", func() {
		Expect(m.Up()).To(Succeed())
		Expect(m.Up()).To(Succeed())

		status, err := m.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Pending).To(BeEmpty())
		Expect(status.Dirty).To(BeFalse())
	})

	It("creates tables a pool can use", func() {
		ctx := context.Background()
		pool, err := store.Connect(ctx, dsn, store.DefaultPoolOptions())
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		for _, table := range []string{"learners", "admins", "courses", "purchases"} {
			var exists bool
			Expect(pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
			).Scan(&exists)).To(Succeed())
			Expect(exists).To(BeTrue(), table)
		}
	})

	It("rolls everything back", func() {
		Expect(m.Down()).To(Succeed())

		version, _, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})
})
