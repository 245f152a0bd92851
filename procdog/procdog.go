// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package procdog watches named processes and reports when they appear,
// disappear, or are missing at startup. The process lister is an opaque
// collaborator (Backend); procdog only ever sees (pid, name) pairs.
package procdog

import (
	"time"

	"github.com/tinythings/omnitrace/internal/sensor"
)

// ProcInfo is one running process as a Backend reports it.
type ProcInfo struct {
	PID  int
	Name string
}

// Backend lists currently running processes. A listing error is
// transient and skips the tick rather than failing the sensor.
type Backend interface {
	List() ([]ProcInfo, error)
}

// Config holds ProcDog's tunables.
type Config struct {
	Interval           time.Duration
	EmitMissingOnStart bool
}

// DefaultConfig returns the documented default: 1s interval, no
// emit-on-start.
func DefaultConfig() Config {
	return Config{Interval: time.Second}
}

// ProcDog is a diff-based process-presence watcher.
type ProcDog struct {
	cfg     Config
	backend Backend

	watched []string
	ignored map[string]struct{}

	state map[string]map[int]struct{}
}

// New builds a ProcDog against backend. Watch order (hence prime/tick
// iteration order) follows the order Watch is called in.
func New(cfg Config, backend Backend) *ProcDog {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &ProcDog{
		cfg:     cfg,
		backend: backend,
		ignored: make(map[string]struct{}),
		state:   make(map[string]map[int]struct{}),
	}
}

// Watch adds a process name to monitor.
func (d *ProcDog) Watch(name string) {
	for _, w := range d.watched {
		if w == name {
			return
		}
	}
	d.watched = append(d.watched, name)
}

// Ignore excludes a watched name from priming and ticking without
// removing it from the watch list.
func (d *ProcDog) Ignore(name string) {
	d.ignored[name] = struct{}{}
}

func (d *ProcDog) activeNames() []string {
	var out []string
	for _, name := range d.watched {
		if _, skip := d.ignored[name]; skip {
			continue
		}
		out = append(out, name)
	}
	return out
}

func pidsByName(procs []ProcInfo, name string) map[int]struct{} {
	out := make(map[int]struct{})
	for _, p := range procs {
		if p.Name == name {
			out[p.PID] = struct{}{}
		}
	}
	return out
}

func pidDifference(a, b map[int]struct{}) []int {
	var out []int
	for pid := range a {
		if _, ok := b[pid]; !ok {
			out = append(out, pid)
		}
	}
	return out
}

// prime takes the first snapshot. A backend failure here simply leaves
// state empty for this round; it is not fatal.
func (d *ProcDog) prime(hub *sensor.Hub[Event]) {
	procs, err := d.backend.List()
	if err != nil {
		return
	}

	for _, name := range d.activeNames() {
		pids := pidsByName(procs, name)
		if d.cfg.EmitMissingOnStart && len(pids) == 0 {
			hub.Fire(MaskMissing, Missing(name))
		}
		d.state[name] = pids
	}
}

// tickOnce lists processes once and fires Appeared/Disappeared for every
// watched-not-ignored name. A backend failure skips the tick, preserving
// prior state.
func (d *ProcDog) tickOnce(hub *sensor.Hub[Event]) {
	procs, err := d.backend.List()
	if err != nil {
		return
	}

	for _, name := range d.activeNames() {
		current := pidsByName(procs, name)
		previous := d.state[name]

		for _, pid := range pidDifference(current, previous) {
			hub.Fire(MaskAppeared, Appeared(name, pid))
		}
		for _, pid := range pidDifference(previous, current) {
			hub.Fire(MaskDisappeared, Disappeared(name, pid))
		}

		d.state[name] = current
	}
}

// Run implements sensor.Sensor[Event].
func (d *ProcDog) Run(ctx sensor.Ctx[Event]) error {
	d.prime(ctx.Hub)

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Context.Done():
			return nil
		case <-ticker.C:
		}
		d.tickOnce(ctx.Hub)
	}
}
