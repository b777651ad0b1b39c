package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is implemented by every failure the HTTP boundary reports verbatim.
type Error interface {
	error
	StatusCode() int
}

type MissingFieldError struct {
	Field string
	Info  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Field %q not included in request%s", e.Field, suffix(e.Info))
}

func (e *MissingFieldError) StatusCode() int { return http.StatusBadRequest }

type InvalidFieldError struct {
	Field string
	Info  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Invalid value at field %q%s", e.Field, suffix(e.Info))
}

func (e *InvalidFieldError) StatusCode() int { return http.StatusBadRequest }

// UnauthenticatedError means the caller could not be identified.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string {
	if e.Message == "" {
		return "Unauthorized"
	}
	return e.Message
}

func (e *UnauthenticatedError) StatusCode() int { return http.StatusUnauthorized }

// BadCredentialsError means the caller was identified but a password check failed.
type BadCredentialsError struct {
	Message string
}

func (e *BadCredentialsError) Error() string {
	if e.Message == "" {
		return "Invalid credentials"
	}
	return e.Message
}

func (e *BadCredentialsError) StatusCode() int { return http.StatusUnauthorized }

// ForbiddenError is reserved; no route returns it yet.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "Resource access forbidden"
	}
	return e.Message
}

func (e *ForbiddenError) StatusCode() int { return http.StatusForbidden }

type NotFoundError struct {
	ID   string
	Role string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Document with id %q not found%s", e.ID, suffix(e.Role))
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

type UniqueConflictError struct {
	Field string
	Value string
}

func (e *UniqueConflictError) Error() string {
	return fmt.Sprintf("Field %q with value %q already exists", e.Field, e.Value)
}

func (e *UniqueConflictError) StatusCode() int { return http.StatusConflict }

// PartialWriteError reports a two-document write where the first write
// landed and the second did not. Compensated tells whether the first write
// was rolled back by hand; if it is false the store is inconsistent.
type PartialWriteError struct {
	Op              string
	PostID          string
	OwnerID         string
	Err             error
	Compensated     bool
	CompensationErr error
}

func (e *PartialWriteError) Error() string {
	state := "compensated"
	if !e.Compensated {
		state = "not compensated"
		if e.CompensationErr != nil {
			state += ": " + e.CompensationErr.Error()
		}
	}
	return fmt.Sprintf("Partial write during %s (post %s, owner %s): %v (%s)", e.Op, e.PostID, e.OwnerID, e.Err, state)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) StatusCode() int { return http.StatusInternalServerError }

// StatusCode maps err to an HTTP status; untyped errors are 500.
func StatusCode(err error) int {
	var se Error
	if errors.As(err, &se) {
		return se.StatusCode()
	}
	return http.StatusInternalServerError
}

func suffix(info string) string {
	if info == "" {
		return ""
	}
	return " (" + info + ")"
}
