// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/internal/httpapi"
	"github.com/coursehub/coursehub/internal/purchase"
)

func newAPIServer(b *backend) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher, err := auth.NewArgon2idHasherWithParams(auth.Argon2Params{Time: 1, Memory: 64, Threads: 1, SaltLen: 16, KeyLen: 32})
	Expect(err).NotTo(HaveOccurred())
	tokens, err := auth.NewTokenService("learner-secret", "admin-secret")
	Expect(err).NotTo(HaveOccurred())
	learners, err := auth.NewCredentialService(auth.KindLearner, b.principals, hasher, tokens, logger)
	Expect(err).NotTo(HaveOccurred())
	admins, err := auth.NewCredentialService(auth.KindAdmin, b.principals, hasher, tokens, logger)
	Expect(err).NotTo(HaveOccurred())
	resolver, err := auth.NewResolver(tokens)
	Expect(err).NotTo(HaveOccurred())
	courses, err := course.NewService(b.courses, logger)
	Expect(err).NotTo(HaveOccurred())
	purchases, err := purchase.NewService(b.purchases, b.courses, logger)
	Expect(err).NotTo(HaveOccurred())

	h, err := httpapi.NewRouter(httpapi.Deps{
		Learners:  learners,
		Admins:    admins,
		Resolver:  resolver,
		Courses:   courses,
		Purchases: purchases,
		Logger:    logger,
	})
	Expect(err).NotTo(HaveOccurred())
	return httptest.NewServer(h)
}

type client struct {
	base string
}

func (c client) call(method, path, token string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}
	return resp.StatusCode
}

func (c client) account(kind string) string {
	email := uniqueEmail()
	Expect(c.call(http.MethodPost, "/api/v1/"+kind+"/signup", "", map[string]string{
		"email": email, "password": "Passw0rd!", "firstName": "Grace", "lastName": "Hopper",
	}, nil)).To(Equal(http.StatusCreated))

	var tok struct {
		Token string `json:"token"`
	}
	Expect(c.call(http.MethodPost, "/api/v1/"+kind+"/signin", "", map[string]string{
		"email": email, "password": "Passw0rd!",
	}, &tok)).To(Equal(http.StatusOK))
	return tok.Token
}

var _ = Describe("HTTP API", func() {
	for _, name := range []string{"postgres", "mongo"} {
		Describe("over "+name, Ordered, func() {
			var (
				srv *httptest.Server
				c   client
			)

			BeforeAll(func() {
				srv = newAPIServer(env.backends[name])
				c = client{base: srv.URL}
				DeferCleanup(srv.Close)
			})

			It("runs the marketplace flow", func() {
				admin := c.account("admin")
				rival := c.account("admin")
				learner := c.account("user")

				var created struct {
					CourseID string `json:"courseId"`
				}
				Expect(c.call(http.MethodPost, "/api/v1/admin/course", admin, map[string]any{
					"title": "Distributed Systems", "description": "consensus", "price": 49, "imageUrl": "https://img.example.com/ds.png",
				}, &created)).To(Equal(http.StatusCreated))

				var errBody httpapi.ErrorBody
				Expect(c.call(http.MethodPut, "/api/v1/admin/course", rival, map[string]any{
					"courseId": created.CourseID, "price": 1,
				}, &errBody)).To(Equal(http.StatusForbidden))
				Expect(errBody.Code).To(Equal(auth.CodeForbidden))

				Expect(c.call(http.MethodPut, "/api/v1/admin/course", admin, map[string]any{
					"courseId": created.CourseID, "price": 39,
				}, nil)).To(Equal(http.StatusOK))

				Expect(c.call(http.MethodPost, "/api/v1/course/purchase", learner, map[string]string{
					"courseId": created.CourseID,
				}, nil)).To(Equal(http.StatusCreated))

				var bought struct {
					CoursesData []struct {
						ID    string  `json:"id"`
						Price float64 `json:"price"`
					} `json:"coursesData"`
				}
				Expect(c.call(http.MethodGet, "/api/v1/user/purchases", learner, nil, &bought)).To(Equal(http.StatusOK))
				Expect(bought.CoursesData).To(HaveLen(1))
				Expect(bought.CoursesData[0].ID).To(Equal(created.CourseID))
				Expect(bought.CoursesData[0].Price).To(Equal(39.0))

				Expect(c.call(http.MethodDelete, "/api/v1/admin/course", admin, map[string]string{
					"courseId": created.CourseID,
				}, nil)).To(Equal(http.StatusOK))

				Expect(c.call(http.MethodGet, "/api/v1/user/purchases", learner, nil, &bought)).To(Equal(http.StatusOK))
				Expect(bought.CoursesData).To(BeEmpty())
			})

			It("rejects a learner token on admin routes", func() {
				learner := c.account("user")
				Expect(c.call(http.MethodGet, "/api/v1/admin/course", learner, nil, nil)).To(Equal(http.StatusUnauthorized))
			})
		})
	}
})
