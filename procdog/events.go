// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package procdog

const (
	MaskAppeared uint64 = 1 << iota
	MaskDisappeared
	MaskMissing
)

// Event is a single change in a watched process name's live PID set.
type Event struct {
	kind uint64
	Name string
	PID  int // zero for Missing
}

func (e Event) Mask() uint64 { return e.kind }

func (e Event) Kind() string {
	switch e.kind {
	case MaskAppeared:
		return "appeared"
	case MaskDisappeared:
		return "disappeared"
	case MaskMissing:
		return "missing"
	default:
		return "unknown"
	}
}

func Appeared(name string, pid int) Event    { return Event{kind: MaskAppeared, Name: name, PID: pid} }
func Disappeared(name string, pid int) Event { return Event{kind: MaskDisappeared, Name: name, PID: pid} }
func Missing(name string) Event              { return Event{kind: MaskMissing, Name: name} }
