// Package httpx holds the JSON helpers and middleware shared by the HTTP handlers.
package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
)

// ExposeErrorDetails adds the wrapped cause to error bodies. Enabled in development.
var ExposeErrorDetails bool

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func OK(w http.ResponseWriter, r *http.Request, v interface{}) {
	JSON(w, r, http.StatusOK, v)
}

func Created(w http.ResponseWriter, r *http.Request, v interface{}) {
	JSON(w, r, http.StatusCreated, v)
}

func Message(w http.ResponseWriter, r *http.Request, msg string) {
	JSON(w, r, http.StatusOK, MessageResponse{Message: msg})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindBusinessRule, apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"error": ...}. Internal errors get a generic message
// and are handed to the access log.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	body := ErrorResponse{Error: "Internal server error"}
	var appErr *apperror.Error
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		body.Error = appErr.Message
	}
	if ExposeErrorDetails {
		body.Detail = err.Error()
	}

	if status >= http.StatusInternalServerError {
		recordError(r.Context(), err)
	}
	JSON(w, r, status, body)
}

type errorSlot struct{ err error }

type errorSlotKey struct{}

func withErrorSlot(ctx context.Context) (context.Context, *errorSlot) {
	slot := &errorSlot{}
	return context.WithValue(ctx, errorSlotKey{}, slot), slot
}

func recordError(ctx context.Context, err error) {
	if slot, ok := ctx.Value(errorSlotKey{}).(*errorSlot); ok {
		slot.err = err
	}
}

// SetTotalCount exposes the unpaged row count in the x-total-count header.
func SetTotalCount(w http.ResponseWriter, n int) {
	w.Header().Set("x-total-count", strconv.Itoa(n))
	w.Header().Add("Access-Control-Expose-Headers", "x-total-count")
}
