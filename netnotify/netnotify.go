// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package netnotify watches the host's open TCP/UDP connection table and
// fires Opened/Closed events for connections that weren't present (or
// disappeared) on the previous tick, with optional reverse-DNS enrichment
// and glob-based filtering.
package netnotify

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/tinythings/omnitrace/internal/globmatch"
	"github.com/tinythings/omnitrace/internal/logging"
	"github.com/tinythings/omnitrace/internal/reversedns"
	"github.com/tinythings/omnitrace/internal/sensor"
)

// Config controls NetNotify's polling cadence and reverse-DNS behavior.
type Config struct {
	Pulse  time.Duration
	DNS    bool
	DNSTTL time.Duration
}

// DefaultConfig returns the documented defaults: 1s pulse, DNS off,
// 60s DNS cache TTL.
func DefaultConfig() Config {
	return Config{Pulse: time.Second, DNS: false, DNSTTL: 60 * time.Second}
}

type dnsCacheEntry struct {
	hostname string
	expires  time.Time
}

// NetNotify is the connection-table sensor described in §4.4.
type NetNotify struct {
	cfg Config

	last    map[ConnKey]struct{}
	primed  bool
	resolve func(ip net.IP) (string, bool)

	watchPatterns      []string
	watchIPPatterns    []string
	watchHostPatterns  []string
	ignorePatterns     []string
	ignoreIPPatterns   []string
	ignoreHostPatterns []string

	watch      globmatch.Set
	watchIP    globmatch.Set
	watchHost  globmatch.Set
	ignore     globmatch.Set
	ignoreIP   globmatch.Set
	ignoreHost globmatch.Set

	dnsCache map[string]dnsCacheEntry
}

// New builds a NetNotify with the given configuration (DefaultConfig() if
// cfg is the zero value... callers should use DefaultConfig() explicitly;
// a literal zero Config means pulse=0, which New rejects by substituting
// the default pulse).
func New(cfg Config) *NetNotify {
	if cfg.Pulse <= 0 {
		cfg.Pulse = time.Second
	}
	if cfg.DNSTTL <= 0 {
		cfg.DNSTTL = 60 * time.Second
	}
	return &NetNotify{
		cfg:      cfg,
		last:     make(map[ConnKey]struct{}),
		resolve:  reversedns.NewResolver().Lookup,
		dnsCache: make(map[string]dnsCacheEntry),
	}
}

// SetResolver overrides the reverse-DNS lookup function; used by tests to
// assert the cache prevents redundant calls without touching the network.
func (n *NetNotify) SetResolver(resolve func(ip net.IP) (string, bool)) {
	n.resolve = resolve
}

// Add registers a watch pattern. Host-like patterns ("*.google.com")
// auto-enable DNS enrichment.
func (n *NetNotify) Add(pattern string) {
	switch classify(pattern) {
	case kindHost:
		n.cfg.DNS = true
		n.watchHostPatterns = append(n.watchHostPatterns, pattern)
		n.watchHost = globmatch.Compile(n.watchHostPatterns...)
	case kindIP:
		n.watchIPPatterns = append(n.watchIPPatterns, pattern)
		n.watchIP = globmatch.Compile(n.watchIPPatterns...)
	default:
		n.watchPatterns = append(n.watchPatterns, pattern)
		n.watch = globmatch.Compile(n.watchPatterns...)
	}
}

// Ignore registers an ignore pattern. Host-like patterns auto-enable DNS
// enrichment too, since an ignore-by-hostname rule still needs a resolved
// name to test against.
func (n *NetNotify) Ignore(pattern string) {
	switch classify(pattern) {
	case kindHost:
		n.cfg.DNS = true
		n.ignoreHostPatterns = append(n.ignoreHostPatterns, pattern)
		n.ignoreHost = globmatch.Compile(n.ignoreHostPatterns...)
	case kindIP:
		n.ignoreIPPatterns = append(n.ignoreIPPatterns, pattern)
		n.ignoreIP = globmatch.Compile(n.ignoreIPPatterns...)
	default:
		n.ignorePatterns = append(n.ignorePatterns, pattern)
		n.ignore = globmatch.Compile(n.ignorePatterns...)
	}
}

// Run implements sensor.Sensor. It reads the connection table every
// cfg.Pulse, diffs it against the previous tick, and fires Opened/Closed
// events for accepted connections.
func (n *NetNotify) Run(ctx sensor.Ctx[Event]) error {
	ticker := time.NewTicker(n.cfg.Pulse)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Context.Done():
			return nil
		case <-ticker.C:
		}

		now, err := readTable()
		if err != nil {
			logging.Warnf("netnotify: read connection table failed: %v", err)
			continue
		}

		if !n.primed {
			n.last = now
			n.primed = true
			continue
		}

		opened := difference(now, n.last)
		closed := difference(n.last, now)

		for _, c := range opened {
			n.enrichDNS(&c)
			if n.matches(c) {
				ctx.Hub.Fire(MaskOpened, Opened(c))
			}
		}
		for _, c := range closed {
			n.enrichDNS(&c)
			if n.matches(c) {
				ctx.Hub.Fire(MaskClosed, Closed(c))
			}
		}

		n.last = now
	}
}

// hostFromAddr splits a decoded "host:port" string at the last colon, not
// the first, since an IPv6 host itself contains colons ("::1:443",
// "2001:db8::1:443"). Mirrors the original's rsplit_once(':').
func hostFromAddr(addr string) (host string, found bool) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", false
	}
	return addr[:i], true
}

func difference(a, b map[ConnKey]struct{}) []ConnKey {
	out := make([]ConnKey, 0, len(a))
	for k := range a {
		if _, in := b[k]; !in {
			out = append(out, k)
		}
	}
	return out
}

func (n *NetNotify) enrichDNS(c *ConnKey) {
	if !n.cfg.DNS {
		return
	}

	host, found := hostFromAddr(c.RemoteDecoded)
	if !found {
		return
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsUnspecified() {
		return
	}

	if entry, ok := n.dnsCache[ip.String()]; ok && entry.expires.After(time.Now()) {
		c.RemoteHost = entry.hostname
		return
	}

	name, ok := n.resolve(ip)
	if !ok {
		return
	}

	n.dnsCache[ip.String()] = dnsCacheEntry{hostname: name, expires: time.Now().Add(n.cfg.DNSTTL)}
	c.RemoteHost = name
}

func (n *NetNotify) matches(c ConnKey) bool {
	local := c.LocalDecoded
	if local == "" {
		local = c.Local
	}
	remote := c.RemoteDecoded
	if remote == "" {
		remote = c.Remote
	}

	proto := strings.TrimSuffix(c.Proto, "6")
	simple := fmt.Sprintf("%s %s %s", proto, local, remote)

	remoteDec := c.RemoteDecoded
	if remoteDec == "" {
		remoteDec = "-"
	}
	remoteIP, found := hostFromAddr(remoteDec)
	if !found {
		remoteIP = remoteDec
	}
	remoteHost := c.RemoteHost

	if n.ignore.MatchAny(simple) {
		return false
	}
	if remoteHost != "" && n.ignoreHost.MatchAny(remoteHost) {
		return false
	}
	if n.ignoreIP.MatchAny(remoteIP) {
		return false
	}

	if !n.watch.Empty() && !n.watch.MatchAny(simple) {
		return false
	}

	if !n.watchHost.Empty() {
		if remoteHost == "" {
			return false
		}
		if !n.watchHost.MatchAny(remoteHost) {
			return false
		}
	}

	if !n.watchIP.Empty() && !n.watchIP.MatchAny(remoteIP) {
		return false
	}

	if !n.watch.Empty() || !n.ignore.Empty() {
		localDec := c.LocalDecoded
		if localDec == "" {
			localDec = "-"
		}
		stateRaw := c.State
		if stateRaw == "" {
			stateRaw = "-"
		}
		stateDec := c.StateDecoded
		if stateDec == "" {
			stateDec = "-"
		}

		target := fmt.Sprintf("%s raw:%s->%s dec:%s->%s state:%s:%s",
			proto, c.Local, c.Remote, localDec, remoteDec, stateRaw, stateDec)

		if !n.watch.Empty() && !n.watch.MatchAny(target) {
			return false
		}
		if n.ignore.MatchAny(target) {
			return false
		}
	}

	return true
}
