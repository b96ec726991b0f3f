package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	applog "erp/internal/log"
	"erp/internal/metrics"
)

// Slot binds one key of a Store to a value of type T, encoded as JSON.
// Load and Save never fail: problems are logged and the caller keeps
// working with its in-memory value.
type Slot[T any] struct {
	store Store
	key   string
}

func NewSlot[T any](store Store, key string) *Slot[T] {
	return &Slot[T]{store: store, key: key}
}

// Key returns the slot name.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the stored value, or def when the slot is empty, the store
// is unavailable or the payload cannot be decoded.
func (s *Slot[T]) Load(ctx context.Context, def T) T {
	if s.store == nil {
		s.fail(ctx, applog.OpLoad, applog.ErrorTypeStorage, errors.New("store not initialized"))
		return def
	}

	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return def
	}
	if err != nil {
		s.fail(ctx, applog.OpLoad, applog.ErrorTypeStorage, err)
		return def
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.fail(ctx, applog.OpLoad, applog.ErrorTypeDecode, err)
		return def
	}
	return v
}

// Save writes v through to the store.
func (s *Slot[T]) Save(ctx context.Context, v T) {
	if s.store == nil {
		s.fail(ctx, applog.OpSave, applog.ErrorTypeStorage, errors.New("store not initialized"))
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		s.fail(ctx, applog.OpSave, applog.ErrorTypeDecode, err)
		return
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		s.fail(ctx, applog.OpSave, applog.ErrorTypeStorage, err)
		return
	}
	slog.DebugContext(ctx, "Slot saved",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldSlotKey, s.key,
		"bytes", len(raw))
}

func (s *Slot[T]) fail(ctx context.Context, op, errorType string, err error) {
	metrics.PersistenceFailures.WithLabelValues(s.key, op).Inc()
	slog.WarnContext(ctx, "Slot "+op+" failed, keeping in-memory value",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, op,
		applog.FieldSlotKey, s.key,
		applog.FieldErrorType, errorType,
		applog.FieldError, err)
}
