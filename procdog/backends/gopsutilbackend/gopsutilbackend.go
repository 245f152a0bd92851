// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package gopsutilbackend lists processes via gopsutil, procdog's default,
// cross-platform backend.
package gopsutilbackend

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/tinythings/omnitrace/procdog"
)

// Backend implements procdog.Backend on top of gopsutil/v3/process.
type Backend struct{}

// New returns a ready-to-use Backend.
func New() Backend { return Backend{} }

func (Backend) List() ([]procdog.ProcInfo, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, err
	}

	out := make([]procdog.ProcInfo, 0, len(pids))
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue // process already gone
		}
		name, err := proc.Name()
		if err != nil {
			continue
		}
		out = append(out, procdog.ProcInfo{PID: int(pid), Name: name})
	}
	return out, nil
}
