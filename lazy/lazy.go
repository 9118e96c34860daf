// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package lazy manages shared test resources that are constructed on first
// use and reset between test cases.
package lazy

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Resource is a shared test resource held by a Singleton. Teardown resets
// the resource's internal state between test cases; it does not destroy the
// resource, which stays usable afterwards.
type Resource interface {
	Teardown(ctx context.Context) error
}

// ConstructionError reports that a Singleton factory failed. The singleton
// slot stays empty, so a later Get retries construction.
type ConstructionError struct {
	Err error
}

func (e *ConstructionError) Error() string {
	return "failed to construct shared resource: " + e.Err.Error()
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Singleton holds at most one instance of a shared test resource. The
// instance is constructed by the factory on the first Get call and reused
// by every later call. The zero value is not usable; create instances with
// NewSingleton.
type Singleton[T Resource] struct {
	mu      sync.Mutex
	factory func(ctx context.Context) (T, error)
	inst    T
	built   bool
}

// NewSingleton returns a Singleton that constructs its instance with
// factory on first access. The factory may perform external I/O; it runs at
// most once per process unless it fails.
func NewSingleton[T Resource](factory func(ctx context.Context) (T, error)) *Singleton[T] {
	return &Singleton[T]{factory: factory}
}

// Get returns the shared instance, constructing it if this is the first
// call. Concurrent first access performs exactly one construction; all
// callers observe the same fully-constructed instance. If the factory
// fails, Get returns a *ConstructionError and leaves the slot empty so a
// later call can retry.
func (s *Singleton[T]) Get(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built {
		return s.inst, nil
	}
	inst, err := s.factory(ctx)
	if err != nil {
		var zero T
		return zero, &ConstructionError{Err: err}
	}
	s.inst = inst
	s.built = true
	return s.inst, nil
}

// Initialized reports whether the instance has been constructed.
func (s *Singleton[T]) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built
}

// Teardown forwards to the held instance's Teardown. It is a no-op when no
// instance has been constructed yet; it never triggers construction. The
// instance is kept, so the singleton stays usable after teardown. Teardown
// and Get serialize on the same lock, so teardown never interleaves with an
// in-flight construction.
func (s *Singleton[T]) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built {
		return nil
	}
	if err := s.inst.Teardown(ctx); err != nil {
		return errors.Wrap(err, "failed to tear down shared resource")
	}
	return nil
}
