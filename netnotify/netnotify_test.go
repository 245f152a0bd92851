// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package netnotify

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, kindHost, classify("google.com"))
	assert.Equal(t, kindHost, classify("*.google.com"))
	assert.Equal(t, kindIP, classify("8.8.8.8"))
	// Contains letters ('d', 'b'), so isHostish wins over isIPish — the
	// precedence is intentional, see isHostish's doc comment.
	assert.Equal(t, kindHost, classify("2001:db8::1"))
	assert.Equal(t, kindHost, classify("udp * *"))
	assert.Equal(t, kindGeneric, classify(""))
}

func TestAddAutoEnablesDNSForHostPattern(t *testing.T) {
	n := New(DefaultConfig())
	assert.False(t, n.cfg.DNS)
	n.Add("*.google.com")
	assert.True(t, n.cfg.DNS)
}

func TestIgnoreAutoEnablesDNSForHostPattern(t *testing.T) {
	n := New(DefaultConfig())
	n.Ignore("*.evil.example")
	assert.True(t, n.cfg.DNS)
}

func TestMatchesIPWatch(t *testing.T) {
	n := New(DefaultConfig())
	n.Add("tcp * 1.2.3.4:*")

	match := ConnKey{Proto: "tcp", LocalDecoded: "10.0.0.1:5000", RemoteDecoded: "1.2.3.4:443"}
	noMatch := ConnKey{Proto: "tcp", LocalDecoded: "10.0.0.1:5000", RemoteDecoded: "8.8.8.8:443"}

	assert.True(t, n.matches(match))
	assert.False(t, n.matches(noMatch))
}

func TestMatchesAcceptsEverythingWithNoPatterns(t *testing.T) {
	n := New(DefaultConfig())
	assert.True(t, n.matches(ConnKey{Proto: "tcp", LocalDecoded: "1.1.1.1:1", RemoteDecoded: "2.2.2.2:2"}))
}

func TestMatchesIgnoreWins(t *testing.T) {
	n := New(DefaultConfig())
	n.Ignore("udp * *")
	assert.False(t, n.matches(ConnKey{Proto: "udp", LocalDecoded: "1.1.1.1:1", RemoteDecoded: "2.2.2.2:2"}))
	assert.True(t, n.matches(ConnKey{Proto: "tcp", LocalDecoded: "1.1.1.1:1", RemoteDecoded: "2.2.2.2:2"}))
}

func TestDNSCacheHitsOnce(t *testing.T) {
	n := New(DefaultConfig())
	n.cfg.DNS = true

	calls := 0
	n.SetResolver(func(ip net.IP) (string, bool) {
		calls++
		return "example.invalid", true
	})

	c1 := ConnKey{RemoteDecoded: "93.184.216.34:443"}
	n.enrichDNS(&c1)
	require.Equal(t, "example.invalid", c1.RemoteHost)

	c2 := ConnKey{RemoteDecoded: "93.184.216.34:80"}
	n.enrichDNS(&c2)
	assert.Equal(t, "example.invalid", c2.RemoteHost)

	assert.Equal(t, 1, calls)
}

func TestHostFromAddrSplitsOnLastColon(t *testing.T) {
	host, found := hostFromAddr("::1:443")
	require.True(t, found)
	assert.Equal(t, "::1", host)

	host, found = hostFromAddr("2001:db8::1:443")
	require.True(t, found)
	assert.Equal(t, "2001:db8::1", host)

	host, found = hostFromAddr("127.0.0.1:443")
	require.True(t, found)
	assert.Equal(t, "127.0.0.1", host)

	_, found = hostFromAddr("no-colon")
	assert.False(t, found)
}

func TestDNSEnrichmentResolvesIPv6Remote(t *testing.T) {
	n := New(DefaultConfig())
	n.cfg.DNS = true

	var gotIP net.IP
	n.SetResolver(func(ip net.IP) (string, bool) {
		gotIP = ip
		return "v6.example.invalid", true
	})

	c := ConnKey{RemoteDecoded: "2001:db8::1:443"}
	n.enrichDNS(&c)

	require.NotNil(t, gotIP)
	assert.Equal(t, "2001:db8::1", gotIP.String())
	assert.Equal(t, "v6.example.invalid", c.RemoteHost)
}

func TestMatchesIPWatchOnIPv6Remote(t *testing.T) {
	// "::1" has no ASCII letters, so it classifies as kindIP, not kindHost
	// (an IPv6 literal containing a-f would classify as host-like instead,
	// per isHostish's documented precedence).
	n := New(DefaultConfig())
	n.Add("::1")

	match := ConnKey{Proto: "tcp", LocalDecoded: "::2:5000", RemoteDecoded: "::1:443"}
	noMatch := ConnKey{Proto: "tcp", LocalDecoded: "::2:5000", RemoteDecoded: "::9:443"}

	assert.True(t, n.matches(match))
	assert.False(t, n.matches(noMatch))
}

func TestDNSEnrichmentSkipsUnspecified(t *testing.T) {
	n := New(DefaultConfig())
	n.cfg.DNS = true

	called := false
	n.SetResolver(func(ip net.IP) (string, bool) {
		called = true
		return "x", true
	})

	c := ConnKey{RemoteDecoded: "0.0.0.0:443"}
	n.enrichDNS(&c)
	assert.False(t, called)
	assert.Empty(t, c.RemoteHost)
}

func TestDifferenceComputesSetSubtraction(t *testing.T) {
	a := map[ConnKey]struct{}{{Proto: "tcp", Local: "1"}: {}, {Proto: "tcp", Local: "2"}: {}}
	b := map[ConnKey]struct{}{{Proto: "tcp", Local: "2"}: {}}

	got := difference(a, b)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Local)
}
