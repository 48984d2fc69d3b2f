// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package httpapi exposes the coursehub services as JSON over HTTP under
// /api/v1. Handlers only translate between JSON and service calls; every
// rule lives in the services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/internal/purchase"
)

// Deps are the services the API is built on.
type Deps struct {
	Learners  *auth.CredentialService
	Admins    *auth.CredentialService
	Resolver  *auth.Resolver
	Courses   *course.Service
	Purchases *purchase.Service
	Logger    *slog.Logger

	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Learners == nil || d.Learners.Kind() != auth.KindLearner:
		return oops.In("httpapi").Errorf("learner credential service is required")
	case d.Admins == nil || d.Admins.Kind() != auth.KindAdmin:
		return oops.In("httpapi").Errorf("admin credential service is required")
	case d.Resolver == nil:
		return oops.In("httpapi").Errorf("resolver is required")
	case d.Courses == nil:
		return oops.In("httpapi").Errorf("course service is required")
	case d.Purchases == nil:
		return oops.In("httpapi").Errorf("purchase service is required")
	}
	return nil
}

type api struct {
	Deps
}

// NewRouter builds the API handler.
func NewRouter(d Deps) (http.Handler, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	a := &api{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", a.signup(d.Learners))
			r.Post("/signin", a.signin(d.Learners))
			r.With(a.requirePrincipal(auth.KindLearner)).Get("/purchases", a.listPurchases)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Post("/signup", a.signup(d.Admins))
			r.Post("/signin", a.signin(d.Admins))
			r.Route("/course", func(r chi.Router) {
				r.Use(a.requirePrincipal(auth.KindAdmin))
				r.Get("/", a.listOwnCourses)
				r.Post("/", a.createCourse)
				r.Put("/", a.updateCourse)
				r.Delete("/", a.deleteCourse)
			})
		})
		r.Route("/course", func(r chi.Router) {
			r.Get("/", a.listCourses)
			r.With(a.requirePrincipal(auth.KindLearner)).Post("/purchase", a.purchase)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorBody{Code: auth.CodeNotFound, Message: errorMessages[auth.CodeNotFound]})
	})

	return r, nil
}

// requirePrincipal resolves the raw Authorization header for kind and puts
// the principal on the request context.
func (a *api) requirePrincipal(kind auth.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.Resolver.Resolve(r.Context(), r.Header.Get("Authorization"), kind)
			if err != nil {
				writeError(w, r, a.Logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// principal returns the caller placed by requirePrincipal.
func principal(r *http.Request) auth.ResolvedPrincipal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}
