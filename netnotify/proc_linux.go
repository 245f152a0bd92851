// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

//go:build linux

package netnotify

import (
	"bufio"
	"os"
	"strings"

	"github.com/tinythings/omnitrace/internal/netdecode"
)

var procNetFiles = []struct {
	proto string
	path  string
	isTCP bool
}{
	{"tcp", "/proc/net/tcp", true},
	{"tcp6", "/proc/net/tcp6", true},
	{"udp", "/proc/net/udp", false},
	{"udp6", "/proc/net/udp6", false},
}

// readTable parses every /proc/net/{tcp,tcp6,udp,udp6} file into the set
// of connections currently open. A missing or unreadable file contributes
// nothing (transient IO: skip, don't fail the tick).
func readTable() (map[ConnKey]struct{}, error) {
	out := make(map[ConnKey]struct{})
	for _, f := range procNetFiles {
		parseProcNetFile(f.proto, f.path, f.isTCP, out)
	}
	return out, nil
}

func parseProcNetFile(proto, path string, isTCP bool, out map[ConnKey]struct{}) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	isV6 := strings.HasSuffix(proto, "6")

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		if lineNo == 1 {
			continue // header
		}

		cols := strings.Fields(line)
		if len(cols) < 3 {
			continue
		}

		local := cols[1]
		remote := cols[2]

		var state string
		if isTCP && len(cols) > 3 {
			state = cols[3]
		}

		localDec, _ := netdecode.DecodeAddr(local, isV6)
		remoteDec, _ := netdecode.DecodeAddr(remote, isV6)

		var stateDec string
		if isTCP {
			stateDec, _ = netdecode.DecodeTCPState(state)
		}

		out[ConnKey{
			Proto:         proto,
			Local:         local,
			Remote:        remote,
			State:         state,
			LocalDecoded:  localDec,
			RemoteDecoded: remoteDec,
			StateDecoded:  stateDec,
		}] = struct{}{}
	}
}
