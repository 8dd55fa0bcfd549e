package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/submission-service/internal/validator"
)

// NotFoundError means the requested resource does not exist.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PermissionError means the caller is known but not allowed.
type PermissionError struct {
	UserEmail string
	Resource  string
	Action    string
	Reason    string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s cannot %s %s: %s", e.UserEmail, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userEmail, resource, action, reason string) *PermissionError {
	return &PermissionError{UserEmail: userEmail, Resource: resource, Action: action, Reason: reason}
}

// UnauthorizedError means the caller's credentials did not check out.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// ConflictError means the operation lost a race or would duplicate state.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}

func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}

// DeliveryError means an outbound side effect (email) failed before
// any state was persisted.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func NewDeliveryError(channel string, err error) *DeliveryError {
	return &DeliveryError{Channel: channel, Err: err}
}

// ===== ERROR CLASSIFICATION =====

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsPermissionError(err error) bool {
	var e *PermissionError
	return errors.As(err, &e)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsDeliveryError(err error) bool {
	var e *DeliveryError
	return errors.As(err, &e)
}

func IsValidationError(err error) bool {
	var e validator.ValidationErrors
	return errors.As(err, &e)
}
