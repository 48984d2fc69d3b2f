// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/pkg/errutil"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  []auth.FieldError `json:"fields,omitempty"`
}

// Messages are fixed per code so responses never reveal the principal kind
// or storage details.
var errorMessages = map[string]string{
	auth.CodeValidationFailed:   "invalid input",
	auth.CodeAlreadyRegistered:  "email already registered",
	auth.CodeNotFound:           "not found",
	auth.CodeInvalidCredentials: "invalid email or password",
	auth.CodeUnauthorized:       "unauthorized",
	auth.CodeForbidden:          "forbidden",
	auth.CodeInternal:           "internal server error",
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case auth.CodeValidationFailed:
		return http.StatusBadRequest
	case auth.CodeInvalidCredentials, auth.CodeUnauthorized:
		return http.StatusUnauthorized
	case auth.CodeForbidden:
		return http.StatusForbidden
	case auth.CodeNotFound:
		return http.StatusNotFound
	case auth.CodeAlreadyRegistered:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have gone away
	json.NewEncoder(w).Encode(v)
}

// writeError renders err. Errors without a known code were never classified
// by a service and are logged here before being reported as internal.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := errutil.Code(err)
	if _, known := errorMessages[code]; !known {
		errutil.LogErrorContext(r.Context(), logger, "unclassified request error", err)
		code = auth.CodeInternal
	}
	writeJSON(w, StatusFor(code), ErrorBody{
		Code:    code,
		Message: errorMessages[code],
		Fields:  auth.FieldsFromError(err),
	})
}

// decodeBody reads a JSON object into dst. Unknown fields are ignored.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "is required"
		}
		return oops.Code(auth.CodeValidationFailed).
			With("fields", []auth.FieldError{{Field: "body", Message: msg}}).
			Wrapf(err, "invalid request body")
	}
	return nil
}
