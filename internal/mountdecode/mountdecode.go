// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package mountdecode parses Linux mountinfo lines: octal-escaped field
// unescaping and the "mountID parentID major:minor root mountpoint opts
// ... - fstype source superopts" grammar.
package mountdecode

import (
	"errors"
	"strings"
)

// Record is one parsed mountinfo line.
type Record struct {
	MountID, ParentID uint32
	Root, MountPoint  string
	MountOpts         string
	FSType, Source    string
	SuperOpts         string
}

// UnescapeField decodes mountinfo's octal field escapes (\040 for space,
// \011 tab, \012 newline, \134 backslash, and any other \NNN).
func UnescapeField(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	b := []byte(s)
	for i := 0; i < len(b); {
		if b[i] == '\\' && i+3 < len(b) &&
			isOctalDigit(b[i+1]) && isOctalDigit(b[i+2]) && isOctalDigit(b[i+3]) {
			v := (int(b[i+1]-'0') * 64) + (int(b[i+2]-'0') * 8) + int(b[i+3]-'0')
			out.WriteByte(byte(v))
			i += 4
			continue
		}
		out.WriteByte(b[i])
		i++
	}
	return out.String()
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// ParseLine parses one mountinfo row. The grammar is:
//
//	mountID parentID major:minor root mountpoint opts [optional...] - fstype source superopts
//
// ok is false if the line doesn't have enough fields to be a valid row.
func ParseLine(line string) (Record, bool) {
	fields := strings.Fields(line)
	idx := 0
	next := func() (string, bool) {
		if idx >= len(fields) {
			return "", false
		}
		f := fields[idx]
		idx++
		return f, true
	}

	mountIDStr, ok := next()
	if !ok {
		return Record{}, false
	}
	parentIDStr, ok := next()
	if !ok {
		return Record{}, false
	}
	if _, ok := next(); !ok { // major:minor, unused
		return Record{}, false
	}
	root, ok := next()
	if !ok {
		return Record{}, false
	}
	mountPoint, ok := next()
	if !ok {
		return Record{}, false
	}
	mountOpts, ok := next()
	if !ok {
		return Record{}, false
	}

	for idx < len(fields) && fields[idx] != "-" {
		idx++
	}
	if idx >= len(fields) || fields[idx] != "-" {
		return Record{}, false
	}
	idx++ // consume "-"

	fstype, ok := next()
	if !ok {
		return Record{}, false
	}
	source, ok := next()
	if !ok {
		return Record{}, false
	}
	superOpts, _ := next() // absent is fine, defaults to ""

	mountID, err := parseUint32(mountIDStr)
	if err != nil {
		return Record{}, false
	}
	parentID, err := parseUint32(parentIDStr)
	if err != nil {
		return Record{}, false
	}

	return Record{
		MountID:    mountID,
		ParentID:   parentID,
		Root:       UnescapeField(root),
		MountPoint: UnescapeField(mountPoint),
		MountOpts:  mountOpts,
		FSType:     fstype,
		Source:     UnescapeField(source),
		SuperOpts:  superOpts,
	}, true
}

func parseUint32(s string) (uint32, error) {
	var v uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotNumeric
		}
		v = v*10 + uint64(c-'0')
	}
	return uint32(v), nil
}

var errNotNumeric = errors.New("mountdecode: not a numeric field")
