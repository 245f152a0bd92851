// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

//go:build netbsd

package xmount

import (
	"golang.org/x/sys/unix"
)

const mntNowait = 2 // unix.MNT_NOWAIT: don't block waiting for stale filesystems

// NetBSD statvfs flag bits relevant to the options string we synthesize.
const (
	stRDONLY = 0x0000_0001
	stNOEXEC = 0x0000_0002
	stNOSUID = 0x0000_0008
	stNODEV  = 0x0000_0010
)

func readMountTable(_ string) ([]MountInfo, error) {
	n, err := unix.Getvfsstat(nil, mntNowait)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	buf := make([]unix.Statvfs_t, n)
	n, err = unix.Getvfsstat(buf, mntNowait)
	if err != nil {
		return nil, err
	}

	out := make([]MountInfo, 0, n)
	for _, sv := range buf[:n] {
		out = append(out, MountInfo{
			MountPoint: byteArrayToString(sv.Mntonname[:]),
			Root:       "/",
			FSType:     byteArrayToString(sv.Fstypename[:]),
			Source:     byteArrayToString(sv.Mntfromname[:]),
			MountOpts:  mountOptsFromFlags(sv.Flag),
		})
	}
	return out, nil
}

func byteArrayToString(buf []byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

func mountOptsFromFlags(flags uint64) string {
	opts := make([]string, 0, 4)
	if flags&stRDONLY != 0 {
		opts = append(opts, "ro")
	} else {
		opts = append(opts, "rw")
	}
	if flags&stNOEXEC != 0 {
		opts = append(opts, "noexec")
	}
	if flags&stNOSUID != 0 {
		opts = append(opts, "nosuid")
	}
	if flags&stNODEV != 0 {
		opts = append(opts, "nodev")
	}

	out := opts[0]
	for _, o := range opts[1:] {
		out += "," + o
	}
	return out
}

// materiallyDiff on NetBSD only has fstype/source/opts to compare —
// statvfs carries no mount/parent IDs or super-block options.
func materiallyDiff(a, b MountInfo) bool {
	return a.FSType != b.FSType || a.Source != b.Source || a.MountOpts != b.MountOpts
}
