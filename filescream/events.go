// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package filescream

const (
	MaskCreated uint64 = 1 << iota
	MaskChanged
	MaskRemoved
)

// Event is a single file-tree change: a path entering, mutating, or
// leaving the watched state.
type Event struct {
	kind uint64
	Path string
}

func (e Event) Mask() uint64 { return e.kind }

func (e Event) Kind() string {
	switch e.kind {
	case MaskCreated:
		return "created"
	case MaskChanged:
		return "changed"
	case MaskRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

func Created(path string) Event { return Event{kind: MaskCreated, Path: path} }
func Changed(path string) Event { return Event{kind: MaskChanged, Path: path} }
func Removed(path string) Event { return Event{kind: MaskRemoved, Path: path} }
