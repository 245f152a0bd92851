// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package goprocbackend lists processes via mitchellh/go-ps, a small
// cross-platform alternative to shelling out to ps(1) or gopsutil.
package goprocbackend

import (
	"github.com/mitchellh/go-ps"

	"github.com/tinythings/omnitrace/procdog"
)

// Backend implements procdog.Backend on top of go-ps.
type Backend struct{}

// New returns a ready-to-use Backend.
func New() Backend { return Backend{} }

func (Backend) List() ([]procdog.ProcInfo, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	out := make([]procdog.ProcInfo, 0, len(procs))
	for _, p := range procs {
		out = append(out, procdog.ProcInfo{PID: p.Pid(), Name: p.Executable()})
	}
	return out, nil
}
