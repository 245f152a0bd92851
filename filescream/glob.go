// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package filescream

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreRule is one compiled ignore pattern: its doublestar-ready form and
// whether it only applies when the candidate path is a directory (source
// pattern ended in "/").
type ignoreRule struct {
	compiled string
	dirOnly  bool
}

// compileIgnore turns a raw pattern into an ignoreRule, or reports ok=false
// if the pattern doesn't compile — callers drop bad patterns silently
// rather than fail registration for the whole set.
func compileIgnore(raw string) (ignoreRule, bool) {
	dirOnly := strings.HasSuffix(raw, "/")
	body := strings.TrimSuffix(raw, "/")
	if body == "" {
		return ignoreRule{}, false
	}

	var compiled string
	if strings.HasPrefix(body, "/") {
		compiled = strings.TrimPrefix(body, "/")
	} else {
		compiled = "**/" + body
	}

	if _, err := doublestar.Match(compiled, "probe"); err != nil {
		return ignoreRule{}, false
	}

	return ignoreRule{compiled: compiled, dirOnly: dirOnly}, true
}

// ignoreSet holds the two glob buckets a caller's ignore patterns split
// into: any-path and directory-only. Compiled once at registration,
// matched on every scan step.
type ignoreSet struct {
	any     []string
	dirOnly []string
}

func newIgnoreSet(patterns []string) ignoreSet {
	var s ignoreSet
	for _, p := range patterns {
		rule, ok := compileIgnore(p)
		if !ok {
			continue
		}
		if rule.dirOnly {
			s.dirOnly = append(s.dirOnly, rule.compiled)
		} else {
			s.any = append(s.any, rule.compiled)
		}
	}
	return s
}

// matches reports whether path (as returned by normalizePath: forward
// slashes, leading "/" removed) should be pruned: either an
// any-path pattern matches it, or it's a directory and a dir-only pattern
// matches it.
func (s ignoreSet) matches(normalizedPath string, isDir bool) bool {
	for _, g := range s.any {
		if ok, _ := doublestar.Match(g, normalizedPath); ok {
			return true
		}
	}
	if isDir {
		for _, g := range s.dirOnly {
			if ok, _ := doublestar.Match(g, normalizedPath); ok {
				return true
			}
		}
	}
	return false
}

// normalizePath converts an OS path to the forward-slash form doublestar
// expects and strips a single leading slash so "**/" patterns and
// root-anchored patterns operate on the same coordinate space.
func normalizePath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "/")
}
