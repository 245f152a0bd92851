// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package procdog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinythings/omnitrace/internal/sensor"
)

type fakeBackend struct {
	procs []ProcInfo
	err   error
}

func (f *fakeBackend) List() ([]ProcInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.procs, nil
}

func collect(hub *sensor.Hub[Event]) *[]Event {
	got := &[]Event{}
	hub.Add(sensor.CallbackFunc[Event]{
		EventMask: MaskAppeared | MaskDisappeared | MaskMissing,
		Handler: func(ev Event) (sensor.Result, bool) {
			*got = append(*got, ev)
			return nil, false
		},
	})
	return got
}

func TestPrimeEmitsMissingOnlyWhenConfigured(t *testing.T) {
	backend := &fakeBackend{procs: []ProcInfo{{PID: 1, Name: "init"}}}

	d := New(Config{EmitMissingOnStart: true}, backend)
	d.Watch("nginx")

	hub := sensor.NewHub[Event]()
	got := collect(hub)
	d.prime(hub)

	require.Len(t, *got, 1)
	assert.Equal(t, "missing", (*got)[0].Kind())
	assert.Equal(t, "nginx", (*got)[0].Name)
}

func TestPrimeSilentWithoutEmitMissingFlag(t *testing.T) {
	backend := &fakeBackend{}
	d := New(Config{}, backend)
	d.Watch("nginx")

	hub := sensor.NewHub[Event]()
	got := collect(hub)
	d.prime(hub)

	assert.Empty(t, *got)
}

func TestIgnoredNameNeverObserved(t *testing.T) {
	backend := &fakeBackend{procs: []ProcInfo{{PID: 5, Name: "nginx"}}}
	d := New(Config{EmitMissingOnStart: true}, backend)
	d.Watch("nginx")
	d.Ignore("nginx")

	hub := sensor.NewHub[Event]()
	got := collect(hub)
	d.prime(hub)

	assert.Empty(t, *got)
	_, tracked := d.state["nginx"]
	assert.False(t, tracked)
}

func TestTickDetectsAppearAndDisappear(t *testing.T) {
	backend := &fakeBackend{procs: []ProcInfo{{PID: 10, Name: "worker"}}}
	d := New(Config{}, backend)
	d.Watch("worker")

	hub := sensor.NewHub[Event]()
	d.prime(hub)

	backend.procs = []ProcInfo{{PID: 11, Name: "worker"}}

	got := collect(hub)
	d.tickOnce(hub)

	var appeared, disappeared []int
	for _, ev := range *got {
		switch ev.Kind() {
		case "appeared":
			appeared = append(appeared, ev.PID)
		case "disappeared":
			disappeared = append(disappeared, ev.PID)
		}
	}
	assert.Equal(t, []int{11}, appeared)
	assert.Equal(t, []int{10}, disappeared)
}

func TestTickSkipsOnBackendError(t *testing.T) {
	backend := &fakeBackend{procs: []ProcInfo{{PID: 1, Name: "worker"}}}
	d := New(Config{}, backend)
	d.Watch("worker")

	hub := sensor.NewHub[Event]()
	d.prime(hub)

	backend.err = errors.New("backend unavailable")

	got := collect(hub)
	d.tickOnce(hub)

	assert.Empty(t, *got)
	assert.Contains(t, d.state["worker"], 1)
}
