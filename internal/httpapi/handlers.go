// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package httpapi

import (
	"net/http"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
)

func (a *api) signup(svc *auth.CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, a.Logger, err)
			return
		}
		_, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			writeError(w, r, a.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, messageResponse{Message: "sign up is successful"})
	}
}

func (a *api) signin(svc *auth.CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signinRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, a.Logger, err)
			return
		}
		token, err := svc.Signin(r.Context(), auth.SigninInput{Email: req.Email, Password: req.Password})
		if err != nil {
			writeError(w, r, a.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}

func (a *api) listOwnCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.Courses.ListByOwner(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, coursesResponse{Courses: toCourseDTOs(courses)})
}

func (a *api) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	c, err := a.Courses.Create(r.Context(), principal(r).ID, course.Input{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, courseIDResponse{Message: "course created", CourseID: c.ID.String()})
}

func (a *api) updateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	id, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	c, err := a.Courses.Update(r.Context(), principal(r).ID, id, req.patch())
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{
		Message:  "course updated",
		CourseID: c.ID.String(),
		Course:   toCourseDTO(c),
	})
}

func (a *api) deleteCourse(w http.ResponseWriter, r *http.Request) {
	var req courseIDRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	id, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	if err := a.Courses.Delete(r.Context(), principal(r).ID, id); err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "course deleted"})
}

func (a *api) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.Courses.ListAll(r.Context())
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, coursesResponse{Courses: toCourseDTOs(courses)})
}

func (a *api) purchase(w http.ResponseWriter, r *http.Request) {
	var req courseIDRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	id, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	p, err := a.Purchases.Record(r.Context(), principal(r).ID, id)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchaseResponse{Message: "course purchased", PurchaseID: p.ID.String()})
}

func (a *api) listPurchases(w http.ResponseWriter, r *http.Request) {
	courses, err := a.Purchases.PurchasedCourses(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, a.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, purchasesResponse{CoursesData: toCourseDTOs(courses)})
}
