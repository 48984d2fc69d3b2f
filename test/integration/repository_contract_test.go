// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

//go:build integration

package integration

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/internal/purchase"
)

func uniqueEmail() string {
	return strings.ToLower(ulid.Make().String()) + "@example.com"
}

func newPrincipal(kind auth.Kind, email string) *auth.Principal {
	p, err := auth.NewPrincipal(kind, email, "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$a2V5", "Ada", "Lovelace")
	Expect(err).NotTo(HaveOccurred())
	// Stores keep millisecond precision at best.
	p.CreatedAt = p.CreatedAt.Truncate(time.Millisecond)
	return p
}

func newCourse(owner ulid.ULID, title string) *course.Course {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &course.Course{
		ID:          ulid.Make(),
		Title:       title,
		Description: "about " + title,
		Price:       19.99,
		ImageURL:    "https://img.example.com/" + title + ".png",
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

var _ = Describe("Repository contract", func() {
	for _, name := range []string{"postgres", "mongo", "memory"} {
		Describe(name, func() {
			var b *backend

			BeforeEach(func() {
				b = env.backends[name]
				Expect(b).NotTo(BeNil())
			})

			Describe("principals", func() {
				It("round-trips by email and id", func() {
					p := newPrincipal(auth.KindLearner, uniqueEmail())
					Expect(b.principals.Create(env.ctx, p)).To(Succeed())

					byEmail, err := b.principals.GetByEmail(env.ctx, auth.KindLearner, p.Email)
					Expect(err).NotTo(HaveOccurred())
					Expect(byEmail.ID).To(Equal(p.ID))
					Expect(byEmail.PasswordHash).To(Equal(p.PasswordHash))
					Expect(byEmail.CreatedAt).To(BeTemporally("==", p.CreatedAt))

					byID, err := b.principals.GetByID(env.ctx, auth.KindLearner, p.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(byID.Email).To(Equal(p.Email))
					Expect(byID.Kind).To(Equal(auth.KindLearner))
				})

				It("keeps learners and admins apart", func() {
					email := uniqueEmail()
					Expect(b.principals.Create(env.ctx, newPrincipal(auth.KindLearner, email))).To(Succeed())
					Expect(b.principals.Create(env.ctx, newPrincipal(auth.KindAdmin, email))).To(Succeed())

					learner := newPrincipal(auth.KindLearner, uniqueEmail())
					Expect(b.principals.Create(env.ctx, learner)).To(Succeed())
					_, err := b.principals.GetByID(env.ctx, auth.KindAdmin, learner.ID)
					Expect(err).To(MatchError(auth.ErrNotFound))
				})

				It("rejects a duplicate email within a kind", func() {
					email := uniqueEmail()
					Expect(b.principals.Create(env.ctx, newPrincipal(auth.KindAdmin, email))).To(Succeed())
					err := b.principals.Create(env.ctx, newPrincipal(auth.KindAdmin, email))
					Expect(err).To(MatchError(auth.ErrAlreadyExists))
				})

				It("admits exactly one of many concurrent creates", func() {
					email := uniqueEmail()
					const n = 8
					var (
						wg        sync.WaitGroup
						mu        sync.Mutex
						successes int
						conflicts int
					)
					for range n {
						wg.Go(func() {
							defer GinkgoRecover()
							err := b.principals.Create(env.ctx, newPrincipal(auth.KindLearner, email))
							mu.Lock()
							defer mu.Unlock()
							switch {
							case err == nil:
								successes++
							case errors.Is(err, auth.ErrAlreadyExists):
								conflicts++
							}
						})
					}
					wg.Wait()
					Expect(successes).To(Equal(1))
					Expect(conflicts).To(Equal(n - 1))
				})

				It("reports unknown emails as not found", func() {
					_, err := b.principals.GetByEmail(env.ctx, auth.KindLearner, uniqueEmail())
					Expect(err).To(MatchError(auth.ErrNotFound))
				})
			})

			Describe("courses", func() {
				var owner, other *auth.Principal

				BeforeEach(func() {
					owner = newPrincipal(auth.KindAdmin, uniqueEmail())
					other = newPrincipal(auth.KindAdmin, uniqueEmail())
					Expect(b.principals.Create(env.ctx, owner)).To(Succeed())
					Expect(b.principals.Create(env.ctx, other)).To(Succeed())
				})

				It("creates, lists and fetches", func() {
					first := newCourse(owner.ID, "first")
					second := newCourse(owner.ID, "second")
					foreign := newCourse(other.ID, "foreign")
					for _, c := range []*course.Course{first, second, foreign} {
						Expect(b.courses.Create(env.ctx, c)).To(Succeed())
					}

					got, err := b.courses.Get(env.ctx, first.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Title).To(Equal("first"))
					Expect(got.Price).To(Equal(19.99))
					Expect(got.OwnerID).To(Equal(owner.ID))

					owned, err := b.courses.ListByOwner(env.ctx, owner.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(courseIDs(owned)).To(Equal([]ulid.ULID{first.ID, second.ID}))

					byIDs, err := b.courses.ListByIDs(env.ctx, []ulid.ULID{foreign.ID, ulid.Make(), first.ID})
					Expect(err).NotTo(HaveOccurred())
					Expect(courseIDs(byIDs)).To(ConsistOf(first.ID, foreign.ID))

					all, err := b.courses.ListAll(env.ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(courseIDs(all)).To(ContainElements(first.ID, second.ID, foreign.ID))
				})

				It("updates only for the owner", func() {
					c := newCourse(owner.ID, "draft")
					Expect(b.courses.Create(env.ctx, c)).To(Succeed())

					title := "final"
					later := c.UpdatedAt.Add(time.Minute)
					_, err := b.courses.Update(env.ctx, c.ID, other.ID, course.Patch{Title: &title}, later)
					Expect(err).To(MatchError(auth.ErrNotFound))

					updated, err := b.courses.Update(env.ctx, c.ID, owner.ID, course.Patch{Title: &title}, later)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.Title).To(Equal("final"))
					Expect(updated.Description).To(Equal(c.Description))
					Expect(updated.UpdatedAt).To(BeTemporally("==", later))
					Expect(updated.CreatedAt).To(BeTemporally("==", c.CreatedAt))
				})

				It("deletes only for the owner", func() {
					c := newCourse(owner.ID, "doomed")
					Expect(b.courses.Create(env.ctx, c)).To(Succeed())

					Expect(b.courses.Delete(env.ctx, c.ID, other.ID)).To(MatchError(auth.ErrNotFound))
					Expect(b.courses.Delete(env.ctx, c.ID, owner.ID)).To(Succeed())
					Expect(b.courses.Delete(env.ctx, c.ID, owner.ID)).To(MatchError(auth.ErrNotFound))

					_, err := b.courses.Get(env.ctx, c.ID)
					Expect(err).To(MatchError(auth.ErrNotFound))
				})
			})

			Describe("purchases", func() {
				It("keeps duplicates in purchase order", func() {
					learner := newPrincipal(auth.KindLearner, uniqueEmail())
					Expect(b.principals.Create(env.ctx, learner)).To(Succeed())

					courseA, courseB := ulid.Make(), ulid.Make()
					base := time.Now().UTC().Truncate(time.Millisecond)
					for i, id := range []ulid.ULID{courseB, courseA, courseB} {
						Expect(b.purchases.Create(env.ctx, &purchase.Purchase{
							ID:        ulid.Make(),
							LearnerID: learner.ID,
							CourseID:  id,
							CreatedAt: base.Add(time.Duration(i) * time.Second),
						})).To(Succeed())
					}

					got, err := b.purchases.ListByLearner(env.ctx, learner.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).To(HaveLen(3))
					Expect([]ulid.ULID{got[0].CourseID, got[1].CourseID, got[2].CourseID}).
						To(Equal([]ulid.ULID{courseB, courseA, courseB}))

					none, err := b.purchases.ListByLearner(env.ctx, ulid.Make())
					Expect(err).NotTo(HaveOccurred())
					Expect(none).To(BeEmpty())
				})
			})
		})
	}
})

func courseIDs(cs []*course.Course) []ulid.ULID {
	ids := make([]ulid.ULID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}
