// Package store persists form configuration records.
package store

import "context"

// Store is the persistence contract for configuration records. Save assigns
// the id and initial bookkeeping fields and returns the id; Update enforces
// optimistic concurrency via Record.Generation. List returns records sorted
// by UpdatedAt, newest first.
type Store interface {
	Save(ctx context.Context, rec *Record) (string, error)
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Record, error)
	Close() error
}
