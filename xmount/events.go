// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package xmount

const (
	MaskMounted uint64 = 1 << iota
	MaskUnmounted
	MaskChanged
)

// MountInfo is one row of the mount table, as far as XMount cares. On
// non-Linux backends MountID/ParentID are 0, Root is "/", and SuperOpts
// is empty — those fields simply don't exist outside Linux's mountinfo.
type MountInfo struct {
	MountID, ParentID uint32
	MountPoint        string
	Root              string
	FSType            string
	Source            string
	MountOpts         string
	SuperOpts         string
}

// Event is a single mount-table change for a watched mountpoint.
type Event struct {
	kind   uint64
	Target string
	Info   MountInfo // valid for Mounted
	Last   MountInfo // valid for Unmounted
	Old    MountInfo // valid for Changed
	New    MountInfo // valid for Changed
}

func (e Event) Mask() uint64 { return e.kind }

func (e Event) Kind() string {
	switch e.kind {
	case MaskMounted:
		return "mounted"
	case MaskUnmounted:
		return "unmounted"
	case MaskChanged:
		return "changed"
	default:
		return "unknown"
	}
}

func Mounted(target string, info MountInfo) Event {
	return Event{kind: MaskMounted, Target: target, Info: info}
}

func Unmounted(target string, last MountInfo) Event {
	return Event{kind: MaskUnmounted, Target: target, Last: last}
}

func Changed(target string, old, new_ MountInfo) Event {
	return Event{kind: MaskChanged, Target: target, Old: old, New: new_}
}
