// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package netnotify

import "strings"

// patternKind buckets a watch/ignore pattern so Add/Ignore can route it to
// the right matcher bucket (generic DSL, IP, or host).
type patternKind int

const (
	kindGeneric patternKind = iota
	kindIP
	kindHost
)

func classify(pattern string) patternKind {
	switch {
	case isHostish(pattern):
		return kindHost
	case isIPish(pattern):
		return kindIP
	default:
		return kindGeneric
	}
}

// isHostish reports whether pattern looks like a hostname glob: it
// contains a letter, or it mixes '*' with '.' the way a domain wildcard
// typically does ("*.google.com").
func isHostish(p string) bool {
	hasLetter := strings.ContainsFunc(p, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	return hasLetter || (strings.Contains(p, "*") && strings.Contains(p, "."))
}

// isIPish reports whether pattern is built only from digits, '.', ':' and
// '*' — an IPv4/IPv6 literal or glob, never containing spaces (which would
// make it a multi-token DSL pattern like "udp * *").
func isIPish(p string) bool {
	if p == "" {
		return false
	}
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ':' || r == '*':
		default:
			return false
		}
	}
	return true
}
