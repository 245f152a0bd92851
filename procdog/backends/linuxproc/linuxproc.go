// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package linuxproc lists processes by scanning /proc directly, with no
// dependency beyond the standard library — a fallback for hosts where
// pulling in gopsutil isn't worth it.
package linuxproc

import (
	"os"
	"strconv"
	"strings"

	"github.com/tinythings/omnitrace/procdog"
)

// Backend implements procdog.Backend by reading /proc/<pid>/comm for
// every numeric entry under /proc.
type Backend struct {
	Root string // defaults to "/proc"
}

// New returns a Backend rooted at the real /proc.
func New() Backend { return Backend{Root: "/proc"} }

func (b Backend) root() string {
	if b.Root == "" {
		return "/proc"
	}
	return b.Root
}

func (b Backend) List() ([]procdog.ProcInfo, error) {
	entries, err := os.ReadDir(b.root())
	if err != nil {
		return nil, err
	}

	out := make([]procdog.ProcInfo, 0, len(entries))
	for _, ent := range entries {
		pid, err := strconv.Atoi(ent.Name())
		if err != nil {
			continue // not a PID directory
		}

		comm, err := os.ReadFile(b.root() + "/" + ent.Name() + "/comm")
		if err != nil {
			continue // process exited between readdir and read
		}

		out = append(out, procdog.ProcInfo{
			PID:  pid,
			Name: strings.TrimSuffix(string(comm), "\n"),
		})
	}
	return out, nil
}
