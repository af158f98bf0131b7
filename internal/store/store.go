// Package store provides the durable key/value slot and its SQLite implementation.
package store

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the slot cannot be used for this session.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrQuotaExceeded means a value was larger than the slot accepts.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Slot is a durable key/value slot holding serialized documents.
type Slot interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Probe checks that the slot accepts writes.
	Probe(ctx context.Context) error

	// Close releases the slot.
	Close() error
}

const probeKey = "__probe__"

type disabledSlot struct {
	cause error
}

// Disabled returns a slot on which every operation fails with ErrUnavailable.
// It lets a session continue in memory when the database cannot be opened.
func Disabled(cause error) Slot {
	return disabledSlot{cause: cause}
}

func (d disabledSlot) err() error {
	if d.cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, d.cause)
}

func (d disabledSlot) Get(context.Context, string) ([]byte, bool, error) { return nil, false, d.err() }
func (d disabledSlot) Put(context.Context, string, []byte) error          { return d.err() }
func (d disabledSlot) Delete(context.Context, string) error               { return d.err() }
func (d disabledSlot) Probe(context.Context) error                        { return d.err() }
func (d disabledSlot) Close() error                                       { return nil }
