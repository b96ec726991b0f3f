// Package storage keeps the dashboard's ledgers in a durable key-value
// store. Each ledger owns one named slot; a Slot loads its value once and
// writes it back on every change, falling back to the in-memory value when
// the store misbehaves.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Store.Get when the key was never written.
	ErrNotFound = errors.New("slot not found")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("store closed")
)

// Store is a durable key-value store holding serialized slot payloads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
