package store

import (
	"context"

	"github.com/matzehuels/gridboard/pkg/board"
)

// NullStore is a no-op store that never keeps anything.
// Used when persistence is disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Load always reports no saved state.
func (NullStore) Load(context.Context, string) (*board.State, error) { return nil, nil }

// Save does nothing.
func (NullStore) Save(context.Context, string, board.State) error { return nil }

// Delete does nothing.
func (NullStore) Delete(context.Context, string) error { return nil }

// Name returns "none".
func (NullStore) Name() string { return BackendNone }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
