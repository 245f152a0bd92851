// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvent struct{ mask uint64 }

func (e fakeEvent) Mask() uint64 { return e.mask }

func TestFireDispatchesInInsertionOrder(t *testing.T) {
	hub := NewHub[fakeEvent]()

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		hub.Add(CallbackFunc[fakeEvent]{
			EventMask: 0b1,
			Handler: func(ev fakeEvent) (Result, bool) {
				order = append(order, name)
				return nil, false
			},
		})
	}

	hub.Fire(0b1, fakeEvent{mask: 0b1})
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFireRespectsMask(t *testing.T) {
	hub := NewHub[fakeEvent]()

	var calledA, calledB bool
	hub.Add(CallbackFunc[fakeEvent]{EventMask: 0b001, Handler: func(fakeEvent) (Result, bool) { calledA = true; return nil, false }})
	hub.Add(CallbackFunc[fakeEvent]{EventMask: 0b010, Handler: func(fakeEvent) (Result, bool) { calledB = true; return nil, false }})

	hub.Fire(0b001, fakeEvent{mask: 0b001})

	assert.True(t, calledA)
	assert.False(t, calledB)
}

func TestFireIsolatesPanickingCallback(t *testing.T) {
	hub := NewHub[fakeEvent]()

	var ranAfter bool
	hub.Add(CallbackFunc[fakeEvent]{EventMask: 0b1, Handler: func(fakeEvent) (Result, bool) { panic("boom") }})
	hub.Add(CallbackFunc[fakeEvent]{EventMask: 0b1, Handler: func(fakeEvent) (Result, bool) { ranAfter = true; return nil, false }})

	assert.NotPanics(t, func() { hub.Fire(0b1, fakeEvent{mask: 0b1}) })
	assert.True(t, ranAfter)
}

func TestFireDeliversResultOnChannel(t *testing.T) {
	hub := NewHub[fakeEvent]()
	results := make(chan Result, 1)
	hub.SetResultChannel(results)

	hub.Add(CallbackFunc[fakeEvent]{
		EventMask: 0b1,
		Handler:   func(fakeEvent) (Result, bool) { return "payload", true },
	})

	hub.Fire(0b1, fakeEvent{mask: 0b1})

	select {
	case r := <-results:
		require.Equal(t, "payload", r)
	default:
		t.Fatal("expected a result on the channel")
	}
}

func TestFireDropsResultWhenChannelFull(t *testing.T) {
	hub := NewHub[fakeEvent]()
	results := make(chan Result) // unbuffered, nobody reading
	hub.SetResultChannel(results)

	hub.Add(CallbackFunc[fakeEvent]{
		EventMask: 0b1,
		Handler:   func(fakeEvent) (Result, bool) { return "payload", true },
	})

	assert.NotPanics(t, func() { hub.Fire(0b1, fakeEvent{mask: 0b1}) })
}

func TestFireSkipsResultWhenCallbackDeclinesOne(t *testing.T) {
	hub := NewHub[fakeEvent]()
	results := make(chan Result, 1)
	hub.SetResultChannel(results)

	hub.Add(CallbackFunc[fakeEvent]{
		EventMask: 0b1,
		Handler:   func(fakeEvent) (Result, bool) { return nil, false },
	})

	hub.Fire(0b1, fakeEvent{mask: 0b1})

	select {
	case <-results:
		t.Fatal("expected no result")
	default:
	}
}
