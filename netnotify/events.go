// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package netnotify

// ConnKey identifies a single /proc/net/{tcp,tcp6,udp,udp6} row. Equality
// (and hence set membership for diffing) is over every field: two entries
// that differ only in, say, decoded remote hostname are different keys.
type ConnKey struct {
	Proto string // "tcp", "udp", "tcp6", "udp6"

	Local  string // raw hex "ip:port"
	Remote string // raw hex "ip:port"
	State  string // raw hex tcp state; "" for udp or if absent

	LocalDecoded  string // "" if undecodable
	RemoteDecoded string
	StateDecoded  string // "" if State == ""

	RemoteHost string // "" unless DNS enrichment succeeded
}

// Mask bits for NetNotify events.
const (
	MaskOpened uint64 = 1 << iota
	MaskClosed
)

// Event is the tagged union of everything NetNotify can fire.
type Event struct {
	kind uint64
	Conn ConnKey
}

// Mask implements sensor.Event.
func (e Event) Mask() uint64 { return e.kind }

// Opened builds an Opened event for conn.
func Opened(conn ConnKey) Event { return Event{kind: MaskOpened, Conn: conn} }

// Closed builds a Closed event for conn.
func Closed(conn ConnKey) Event { return Event{kind: MaskClosed, Conn: conn} }

// Kind names which variant this event is, for logging/printing.
func (e Event) Kind() string {
	switch e.kind {
	case MaskOpened:
		return "opened"
	case MaskClosed:
		return "closed"
	default:
		return "unknown"
	}
}
