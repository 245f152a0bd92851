// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingSensor struct {
	started chan struct{}
	runErr  error
}

func (s *blockingSensor) Run(ctx Ctx[fakeEvent]) error {
	close(s.started)
	<-ctx.Context.Done()
	return s.runErr
}

func TestSpawnRunsSensorAndObservesShutdown(t *testing.T) {
	s := &blockingSensor{started: make(chan struct{})}
	hub := NewHub[fakeEvent]()

	handle := Spawn[fakeEvent](context.Background(), s, hub)

	select {
	case <-s.started:
	case <-time.After(time.Second):
		t.Fatal("sensor never started")
	}

	select {
	case <-handle.Done():
		t.Fatal("handle reported done before shutdown")
	default:
	}

	handle.Shutdown()

	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("sensor never observed cancellation")
	}

	assert.NoError(t, handle.Err())
}

func TestSpawnSurfacesRunError(t *testing.T) {
	wantErr := errors.New("fatal scan failure")
	s := &blockingSensor{started: make(chan struct{}), runErr: wantErr}
	hub := NewHub[fakeEvent]()

	handle := Spawn[fakeEvent](context.Background(), s, hub)
	<-s.started
	handle.Shutdown()
	<-handle.Done()

	require.Equal(t, wantErr, handle.Err())
}

func TestSpawnDerivesFromParentCancellation(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	s := &blockingSensor{started: make(chan struct{})}
	hub := NewHub[fakeEvent]()

	handle := Spawn[fakeEvent](parent, s, hub)
	<-s.started
	cancelParent()

	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("sensor did not exit when parent context was cancelled")
	}
}
