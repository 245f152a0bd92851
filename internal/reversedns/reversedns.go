// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package reversedns issues synchronous PTR lookups against the host's
// configured resolvers, the netnotify equivalent of calling getnameinfo(3)
// with NI_NAMEREQD: a query with no PTR record is "no hostname", never an
// error the caller has to handle specially.
package reversedns

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/tinythings/omnitrace/internal/logging"
)

// DefaultTimeout bounds a single PTR round-trip so one slow or unreachable
// resolver can't wedge a sensor goroutine: a concrete, conservative
// ceiling rather than an unbounded syscall.
const DefaultTimeout = 2 * time.Second

// Resolver performs reverse lookups against a fixed list of nameserver
// addresses ("host:port"), read once from /etc/resolv.conf.
type Resolver struct {
	client      *dns.Client
	nameservers []string
}

// NewResolver builds a Resolver from the system's /etc/resolv.conf,
// falling back to the loopback resolver if that file can't be read (e.g.
// containers without one, or non-Linux test environments).
func NewResolver() *Resolver {
	servers := []string{"127.0.0.1:53"}

	if cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cfg.Servers) > 0 {
		servers = servers[:0]
		for _, s := range cfg.Servers {
			servers = append(servers, net.JoinHostPort(s, cfg.Port))
		}
	}

	return &Resolver{
		client:      &dns.Client{Timeout: DefaultTimeout},
		nameservers: servers,
	}
}

// Lookup issues a PTR query for ip and returns the first answer's target
// name with the trailing dot stripped, or ok=false if there is no PTR
// record, the query errors, or every configured nameserver times out.
func (r *Resolver) Lookup(ip net.IP) (hostname string, ok bool) {
	rev, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return "", false
	}

	msg := new(dns.Msg)
	msg.SetQuestion(rev, dns.TypePTR)
	msg.RecursionDesired = true

	for _, server := range r.nameservers {
		reply, _, err := r.client.Exchange(msg, server)
		if err != nil {
			logging.Debugf("reversedns: query %s via %s failed: %v", ip, server, err)
			continue
		}
		if reply.Rcode != dns.RcodeSuccess {
			continue
		}
		for _, rr := range reply.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, "."), true
			}
		}
		// A successful reply with no PTR answer means NXDOMAIN-equivalent
		// for this ip; no point trying the remaining nameservers.
		return "", false
	}

	return "", false
}
