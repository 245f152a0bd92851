// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package globmatch compiles netnotify's single-level shell-style patterns
// ("tcp * 1.2.3.4:*", "*.google.com") with gobwas/glob. FileScream's
// directory-tree ignore patterns have different semantics (an implicit
// "**/" prefix, directory-only suffixes) and are compiled separately by the
// filescream package itself using bmatcuk/doublestar.
package globmatch

import "github.com/gobwas/glob"

// Set is an ordered list of compiled patterns matched with "any of".
type Set struct {
	globs []glob.Glob
}

// Compile builds a Set from pattern strings. Patterns that fail to compile
// are silently dropped — registration never fails the caller.
func Compile(patterns ...string) Set {
	var s Set
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		s.globs = append(s.globs, g)
	}
	return s
}

// Empty reports whether no pattern in the set compiled successfully (or
// none were given).
func (s Set) Empty() bool {
	return len(s.globs) == 0
}

// MatchAny reports whether any compiled pattern matches target.
func (s Set) MatchAny(target string) bool {
	for _, g := range s.globs {
		if g.Match(target) {
			return true
		}
	}
	return false
}
