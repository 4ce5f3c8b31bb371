package store

import "context"

// Null is a store that never keeps anything.
// Useful when persistence is disabled.
type Null struct{}

// NewNull creates a null store.
func NewNull() Store { return Null{} }

// Get always misses.
func (Null) Get(_ context.Context, id string) ([]byte, error) { return nil, notFound(id) }

// Put does nothing.
func (Null) Put(context.Context, string, []byte) error { return nil }

// Delete does nothing.
func (Null) Delete(context.Context, string) error { return nil }

// List is always empty.
func (Null) List(context.Context) ([]string, error) { return nil, nil }

// Close does nothing.
func (Null) Close() error { return nil }

var _ Store = Null{}
