// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package xmount watches a fixed set of mountpoints and reports when they
// become mounted, unmounted, or change fstype/source/options underneath a
// stable target path.
package xmount

import (
	"path"
	"path/filepath"
	"time"

	"github.com/tinythings/omnitrace/internal/logging"
	"github.com/tinythings/omnitrace/internal/sensor"
)

// Config holds XMount's tunables.
type Config struct {
	Pulse         time.Duration
	MountinfoPath string // Linux only; ignored by other backends
}

// DefaultConfig returns the documented default: 1s pulse,
// /proc/self/mountinfo.
func DefaultConfig() Config {
	return Config{Pulse: time.Second, MountinfoPath: "/proc/self/mountinfo"}
}

// XMount is a diff-based mount-table watcher.
type XMount struct {
	cfg     Config
	watched map[string]struct{}
	last    map[string]MountInfo
	primed  bool
}

// New builds an XMount with the given config.
func New(cfg Config) *XMount {
	if cfg.Pulse <= 0 {
		cfg.Pulse = DefaultConfig().Pulse
	}
	if cfg.MountinfoPath == "" {
		cfg.MountinfoPath = DefaultConfig().MountinfoPath
	}
	return &XMount{
		cfg:     cfg,
		watched: make(map[string]struct{}),
		last:    make(map[string]MountInfo),
	}
}

// Add starts watching a mountpoint. Paths are canonicalized when
// possible, so "/mnt/usb" and "/mnt/./usb" collapse to the same watch.
func (x *XMount) Add(mountpoint string) {
	x.watched[canonicalizeMountpoint(mountpoint)] = struct{}{}
}

// Remove stops watching a mountpoint. It never fires Unmounted — removal
// is a silent unsubscribe.
func (x *XMount) Remove(mountpoint string) {
	delete(x.watched, canonicalizeMountpoint(mountpoint))
}

// Primed reports whether the first snapshot has completed.
func (x *XMount) Primed() bool {
	return x.primed
}

func canonicalizeMountpoint(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return filepath.ToSlash(resolved)
		}
		return filepath.ToSlash(abs)
	}
	return path.Clean(filepath.ToSlash(p))
}

func (x *XMount) snapshotWatched(all []MountInfo) map[string]MountInfo {
	out := make(map[string]MountInfo)
	for _, mi := range all {
		if _, ok := x.watched[mi.MountPoint]; ok {
			out[mi.MountPoint] = mi
		}
	}
	return out
}

// Run implements sensor.Sensor[Event]. It never ticks with no mountpoints
// watched — there is nothing useful to report.
func (x *XMount) Run(ctx sensor.Ctx[Event]) error {
	if len(x.watched) == 0 {
		return nil
	}

	all, err := readMountTable(x.cfg.MountinfoPath)
	if err != nil {
		return err
	}
	x.last = x.snapshotWatched(all)
	x.primed = true

	ticker := time.NewTicker(x.cfg.Pulse)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Context.Done():
			return nil
		case <-ticker.C:
		}

		all, err := readMountTable(x.cfg.MountinfoPath)
		if err != nil {
			logging.Errorf("xmount: failed to read mount table: %v", err)
			continue
		}

		now := x.snapshotWatched(all)
		x.diffAndFire(ctx.Hub, now)
		x.last = now
	}
}

func (x *XMount) diffAndFire(hub *sensor.Hub[Event], now map[string]MountInfo) {
	for mp, info := range now {
		old, ok := x.last[mp]
		switch {
		case !ok:
			hub.Fire(MaskMounted, Mounted(mp, info))
		case materiallyDiff(old, info):
			hub.Fire(MaskChanged, Changed(mp, old, info))
		}
	}
	for mp, last := range x.last {
		if _, ok := now[mp]; !ok {
			hub.Fire(MaskUnmounted, Unmounted(mp, last))
		}
	}
}
