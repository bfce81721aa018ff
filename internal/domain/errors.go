// Package domain provides the entities held by the roster cache together with
// their identity, validation and category rules.
package domain

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when an id cannot be parsed.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidCategory is returned for an unknown notification category.
	ErrInvalidCategory = errors.New("invalid notification category")

	// ErrValidation is returned when an entity or payload fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a write collides with existing data, such
	// as a duplicate email.
	ErrConflict = errors.New("conflict")
)
