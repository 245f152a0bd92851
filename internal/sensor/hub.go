// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package sensor holds the generic lifecycle and dispatch fabric shared by
// every concrete sensor (filescream, netnotify, procdog, xmount): a
// cancellable context, a spawn routine, and an ordered callback hub.
package sensor

import (
	"fmt"

	"github.com/tinythings/omnitrace/internal/logging"
)

// Event is the constraint every sensor's event type must satisfy: it can
// report which bit(s) of its sensor's mask it belongs to.
type Event interface {
	Mask() uint64
}

// Result is what a Callback may hand back for delivery on the hub's result
// channel. Sensors don't interpret it; it's opaque, user-defined payload
// data (typically built into a map[string]any and marshaled by the CLI).
type Result = any

// Callback receives events whose mask intersects its own Mask() and
// optionally returns a Result to be forwarded to the hub's result channel.
type Callback[E Event] interface {
	Mask() uint64
	Call(ev E) (Result, bool)
}

// CallbackFunc adapts a plain function to Callback, the same way
// http.HandlerFunc adapts a function to http.Handler.
type CallbackFunc[E Event] struct {
	EventMask uint64
	Handler   func(ev E) (Result, bool)
}

func (f CallbackFunc[E]) Mask() uint64 { return f.EventMask }

func (f CallbackFunc[E]) Call(ev E) (Result, bool) { return f.Handler(ev) }

// Hub is the ordered, shared registry of callbacks for one sensor's event
// type, plus an optional bounded result channel. Callbacks must be added
// (Add/SetResultChannel) before the owning sensor is spawned: once the
// sensor goroutine starts reading the hub, mutating it concurrently is not
// safe to do without caller-side memory barriers the hub itself does not
// provide.
type Hub[E Event] struct {
	callbacks []Callback[E]
	results   chan<- Result
}

// NewHub constructs an empty hub.
func NewHub[E Event]() *Hub[E] {
	return &Hub[E]{}
}

// Add appends a callback to the dispatch list. Dispatch order always
// matches insertion order.
func (h *Hub[E]) Add(cb Callback[E]) {
	h.callbacks = append(h.callbacks, cb)
}

// SetResultChannel registers the channel results are forwarded to. A nil
// channel (the default) means results are simply discarded.
func (h *Hub[E]) SetResultChannel(ch chan<- Result) {
	h.results = ch
}

// Fire dispatches ev to every callback whose mask intersects evMask, in
// registration order, sequentially. A panicking callback is recovered and
// logged so it can't take down the sensor goroutine or block its peers.
func (h *Hub[E]) Fire(evMask uint64, ev E) {
	for _, cb := range h.callbacks {
		if cb.Mask()&evMask == 0 {
			continue
		}
		h.invoke(cb, ev)
	}
}

func (h *Hub[E]) invoke(cb Callback[E], ev E) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("sensor: callback panicked: %v", r)
		}
	}()

	result, ok := cb.Call(ev)
	if !ok {
		return
	}

	if h.results == nil {
		return
	}

	select {
	case h.results <- result:
	default:
		logging.Warnf("sensor: result channel full, dropping %s", fmt.Sprintf("%T", result))
	}
}
