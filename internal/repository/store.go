// Package repository is the record store adapter: a small document-store
// contract over the five record kinds, keyed by id and filtered by owner.
package repository

import (
	"context"
	"errors"
	"regexp"

	"skincare-tracker/internal/model"
)

var ErrNotFound = errors.New("record not found")

// Record is satisfied by pointers to the model types (they embed model.Document).
type Record[T any] interface {
	*T
	Doc() *model.Document
}

// Filter selects records. Match is a JSON containment filter: every key
// must be present with an equal value, and an array value matches when the
// stored array contains all of its elements.
type Filter struct {
	UserID string
	Match  map[string]any
	SortBy string // "createdAt", "updatedAt" or a top-level document field
	Desc   bool
	Limit  int
}

type Store[T any] interface {
	Find(ctx context.Context, f Filter) ([]*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Count(ctx context.Context, f Filter) (int, error)
	Insert(ctx context.Context, rec *T) (*T, error)
	Save(ctx context.Context, rec *T) (*T, error)
	Delete(ctx context.Context, rec *T) error
}

// Collection names, one per record kind.
const (
	Products   = "products"
	Routines   = "routines"
	Tasks      = "tasks"
	Reviews    = "reviews"
	Activities = "activities"
)

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Stores bundles one Store per record kind.
type Stores struct {
	Products   Store[model.Product]
	Routines   Store[model.Routine]
	Tasks      Store[model.Task]
	Reviews    Store[model.Review]
	Activities Store[model.Activity]
}
