// Package store persists result records keyed by a unique roll number.
package store

import (
	"context"

	"results-portal/models"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no record matches a roll number or id.
	ErrNotFound = errors.New("result not found")
	// ErrDuplicateKey is returned when a write would break roll number uniqueness.
	ErrDuplicateKey = errors.New("roll number already exists")
)

// ResultStore is the record store behind the result service.
type ResultStore interface {
	FindByRollNumber(ctx context.Context, rollNumber string) (*models.Result, error)
	FindByID(ctx context.Context, id string) (*models.Result, error)
	Insert(ctx context.Context, r *models.Result) error
	// Replace overwrites every mutable field of the record with r.ID,
	// including the whole subject list.
	Replace(ctx context.Context, r *models.Result) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
