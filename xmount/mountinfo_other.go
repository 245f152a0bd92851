// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

//go:build !linux && !netbsd

package xmount

import "fmt"

func readMountTable(_ string) ([]MountInfo, error) {
	return nil, fmt.Errorf("xmount: no mount table backend for this platform")
}

func materiallyDiff(a, b MountInfo) bool {
	return a.FSType != b.FSType || a.Source != b.Source || a.MountOpts != b.MountOpts
}
