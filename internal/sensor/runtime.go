// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package sensor

import "context"

// Ctx is the bundle handed to a sensor's Run method: a cancellable context
// and the hub it fires events through. It is not safe to share a Ctx's
// Context across sensors; each Spawn call creates its own.
type Ctx[E Event] struct {
	Context context.Context
	Hub     *Hub[E]
}

// Sensor is any polling engine that can run to completion (or until
// cancelled) given a Ctx. Run should select on ctx.Context.Done() between
// ticks and return promptly once observed.
type Sensor[E Event] interface {
	Run(ctx Ctx[E]) error
}

// Handle lets the owner of a spawned sensor request shutdown and observe
// completion. It is safe to copy and share across goroutines.
type Handle struct {
	cancel context.CancelFunc
	done   <-chan struct{}
	errp   *error
}

// Shutdown signals the sensor to stop. It does not block until the sensor
// has actually exited; use Done() for that.
func (h Handle) Shutdown() {
	h.cancel()
}

// Done returns a channel that is closed once the sensor goroutine has
// returned (not merely once Shutdown was called).
func (h Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the error the sensor's Run returned, if any. Only meaningful
// after Done() has been closed; returns nil before that (including nil vs.
// "didn't finish yet" being indistinguishable without first consulting
// Done()).
func (h Handle) Err() error {
	if h.errp == nil {
		return nil
	}
	return *h.errp
}

// Spawn launches sensor.Run in a new goroutine against a fresh context
// derived from parent, wired to hub, and returns a Handle observing it.
func Spawn[E Event](parent context.Context, s Sensor[E], hub *Hub[E]) Handle {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	var runErr error

	go func() {
		defer close(done)
		runErr = s.Run(Ctx[E]{Context: ctx, Hub: hub})
	}()

	return Handle{cancel: cancel, done: done, errp: &runErr}
}
