// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

//go:build linux

package xmount

import (
	"os"
	"strings"

	"github.com/tinythings/omnitrace/internal/mountdecode"
)

func readMountTable(mountinfoPath string) ([]MountInfo, error) {
	raw, err := os.ReadFile(mountinfoPath)
	if err != nil {
		return nil, err
	}

	var out []MountInfo
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" {
			continue
		}
		rec, ok := mountdecode.ParseLine(line)
		if !ok {
			continue
		}
		out = append(out, MountInfo{
			MountID:    rec.MountID,
			ParentID:   rec.ParentID,
			MountPoint: rec.MountPoint,
			Root:       rec.Root,
			FSType:     rec.FSType,
			Source:     rec.Source,
			MountOpts:  rec.MountOpts,
			SuperOpts:  rec.SuperOpts,
		})
	}
	return out, nil
}

// materiallyDiff on Linux compares every field mountinfo actually gives
// us — a remount that only flips mount_id/parent_id (bind remount) still
// counts as a change worth reporting.
func materiallyDiff(a, b MountInfo) bool {
	return a.MountID != b.MountID ||
		a.ParentID != b.ParentID ||
		a.Root != b.Root ||
		a.FSType != b.FSType ||
		a.Source != b.Source ||
		a.MountOpts != b.MountOpts ||
		a.SuperOpts != b.SuperOpts
}
