// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package httpapi

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
)

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type courseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type courseUpdateRequest struct {
	CourseID    string   `json:"courseId"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
}

func (req courseUpdateRequest) patch() course.Patch {
	return course.Patch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
}

type courseIDRequest struct {
	CourseID string `json:"courseId"`
}

type courseIDResponse struct {
	Message  string `json:"message"`
	CourseID string `json:"courseId"`
}

type courseDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCourseDTO(c *course.Course) courseDTO {
	return courseDTO{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		CreatorID:   c.OwnerID.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCourseDTOs(cs []*course.Course) []courseDTO {
	out := make([]courseDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCourseDTO(c))
	}
	return out
}

type coursesResponse struct {
	Courses []courseDTO `json:"courses"`
}

type updateResponse struct {
	Message  string    `json:"message"`
	CourseID string    `json:"courseId"`
	Course   courseDTO `json:"course"`
}

type purchasesResponse struct {
	CoursesData []courseDTO `json:"coursesData"`
}

type purchaseResponse struct {
	Message    string `json:"message"`
	PurchaseID string `json:"purchaseId"`
}

// parseCourseID rejects a missing or malformed course id as a field error.
func parseCourseID(s string) (ulid.ULID, error) {
	if s == "" {
		return ulid.ULID{}, auth.ValidationError([]auth.FieldError{{Field: "courseId", Message: "is required"}})
	}
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ulid.ULID{}, oops.Code(auth.CodeValidationFailed).
			With("fields", []auth.FieldError{{Field: "courseId", Message: "is not a valid id"}}).
			Wrapf(err, "invalid input")
	}
	return id, nil
}
