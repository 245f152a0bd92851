// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package netdecode implements the pure, allocation-light parsing rules for
// Linux's /proc/net/{tcp,tcp6,udp,udp6} hex encoding: ports, v4/v6
// addresses, and the small TCP state-code table. None of it touches the
// filesystem; netnotify.go owns reading the files.
package netdecode

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// HexPort decodes a 4-hex-digit big-endian port, as used for both the
// local and remote port fields in /proc/net/tcp*.
func HexPort(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// DecodeIPv4 decodes the 8-hex-char IPv4 field as a little-endian uint32
// and formats its bytes in address order.
//
// This matches /proc/net/tcp's actual on-disk encoding on little-endian
// Linux hosts (the overwhelming majority of deployments): "0100007F"
// decodes to 127.0.0.1. On a big-endian host the kernel would have written
// the bytes in the opposite order and this function would misdecode them;
// that host class is out of scope here, not auto-detected.
func DecodeIPv4(hexLE string) (net.IP, bool) {
	v, err := strconv.ParseUint(hexLE, 16, 32)
	if err != nil {
		return nil, false
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return net.IPv4(b[0], b[1], b[2], b[3]), true
}

// DecodeIPv6 decodes the 32-hex-char IPv6 field, which /proc/net/tcp6
// writes in big-endian (network) byte order.
func DecodeIPv6(hexBE string) (net.IP, bool) {
	if len(hexBE) != 32 {
		return nil, false
	}
	raw, err := hex.DecodeString(hexBE)
	if err != nil {
		return nil, false
	}
	ip := make(net.IP, net.IPv6len)
	copy(ip, raw)
	return ip, true
}

// DecodeAddr decodes a "hex_ip:hex_port" column from /proc/net/tcp* into a
// "ip:port" string, choosing the v4 or v6 decoder per v6.
func DecodeAddr(raw string, v6 bool) (string, bool) {
	ipHex, portHex, found := strings.Cut(raw, ":")
	if !found {
		return "", false
	}

	port, ok := HexPort(portHex)
	if !ok {
		return "", false
	}

	var ip net.IP
	if v6 {
		ip, ok = DecodeIPv6(ipHex)
	} else {
		ip, ok = DecodeIPv4(ipHex)
	}
	if !ok {
		return "", false
	}

	return fmt.Sprintf("%s:%d", ip.String(), port), true
}

var tcpStates = map[string]string{
	"01": "ESTABLISHED",
	"02": "SYN_SENT",
	"03": "SYN_RECV",
	"04": "FIN_WAIT1",
	"05": "FIN_WAIT2",
	"06": "TIME_WAIT",
	"07": "CLOSE",
	"08": "CLOSE_WAIT",
	"09": "LAST_ACK",
	"0A": "LISTEN",
	"0B": "CLOSING",
}

// DecodeTCPState maps a /proc/net/tcp state hex code to its symbolic name.
// An empty code (no state column, e.g. for UDP) reports ok=false so callers
// can tell "absent" apart from "unrecognized".
func DecodeTCPState(code string) (name string, ok bool) {
	if code == "" {
		return "", false
	}
	if name, known := tcpStates[strings.ToUpper(code)]; known {
		return name, true
	}
	return "UNKNOWN", true
}
