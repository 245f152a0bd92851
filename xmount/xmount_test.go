// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package xmount

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinythings/omnitrace/internal/sensor"
)

func collect(hub *sensor.Hub[Event]) *[]Event {
	got := &[]Event{}
	hub.Add(sensor.CallbackFunc[Event]{
		EventMask: MaskMounted | MaskUnmounted | MaskChanged,
		Handler: func(ev Event) (sensor.Result, bool) {
			*got = append(*got, ev)
			return nil, false
		},
	})
	return got
}

func TestRunExitsImmediatelyWithNoWatchedMountpoints(t *testing.T) {
	x := New(DefaultConfig())
	err := x.Run(sensor.Ctx[Event]{Context: nil, Hub: sensor.NewHub[Event]()})
	assert.NoError(t, err)
	assert.False(t, x.Primed())
}

func TestDiffAndFireReportsMountedChangedUnmounted(t *testing.T) {
	x := New(DefaultConfig())
	x.Add("/mnt/a")
	x.Add("/mnt/b")
	x.Add("/mnt/c")

	x.last = map[string]MountInfo{
		"/mnt/b": {MountPoint: "/mnt/b", FSType: "ext4", Source: "/dev/sdb1"},
		"/mnt/c": {MountPoint: "/mnt/c", FSType: "tmpfs", Source: "tmpfs"},
	}

	now := map[string]MountInfo{
		"/mnt/a": {MountPoint: "/mnt/a", FSType: "ext4", Source: "/dev/sda1"},
		"/mnt/b": {MountPoint: "/mnt/b", FSType: "xfs", Source: "/dev/sdb1"},
	}

	hub := sensor.NewHub[Event]()
	got := collect(hub)
	x.diffAndFire(hub, now)

	var mounted, changed, unmounted []string
	for _, ev := range *got {
		switch ev.Kind() {
		case "mounted":
			mounted = append(mounted, ev.Target)
		case "changed":
			changed = append(changed, ev.Target)
		case "unmounted":
			unmounted = append(unmounted, ev.Target)
		}
	}

	assert.Equal(t, []string{"/mnt/a"}, mounted)
	assert.Equal(t, []string{"/mnt/b"}, changed)
	assert.Equal(t, []string{"/mnt/c"}, unmounted)
}

func TestDiffAndFireSilentWhenNothingChanged(t *testing.T) {
	x := New(DefaultConfig())
	info := MountInfo{MountPoint: "/mnt/a", FSType: "ext4", Source: "/dev/sda1"}
	x.last = map[string]MountInfo{"/mnt/a": info}

	hub := sensor.NewHub[Event]()
	got := collect(hub)
	x.diffAndFire(hub, map[string]MountInfo{"/mnt/a": info})

	assert.Empty(t, *got)
}

func TestMateriallyDiffLinuxComparesAllFields(t *testing.T) {
	a := MountInfo{MountID: 1, ParentID: 2, Root: "/", FSType: "ext4", Source: "/dev/sda1", MountOpts: "rw", SuperOpts: "errors=remount-ro"}
	b := a
	assert.False(t, materiallyDiff(a, b))

	b.SuperOpts = "errors=continue"
	assert.True(t, materiallyDiff(a, b))

	for name, mutate := range map[string]func(*MountInfo){
		"MountID":   func(m *MountInfo) { m.MountID = 9 },
		"ParentID":  func(m *MountInfo) { m.ParentID = 9 },
		"Root":      func(m *MountInfo) { m.Root = "/sub" },
		"FSType":    func(m *MountInfo) { m.FSType = "xfs" },
		"Source":    func(m *MountInfo) { m.Source = "/dev/sdb1" },
		"MountOpts": func(m *MountInfo) { m.MountOpts = "ro" },
	} {
		c := a
		mutate(&c)
		assert.True(t, materiallyDiff(a, c), name)
	}
}

func TestReadMountTableParsesRealFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mountinfo")
	content := "36 35 98:0 / / rw,noatime master:1 - ext3 /dev/root rw,errors=continue\n" +
		"60 36 0:35 / /mnt/my\\040disk rw - vfat /dev/sdb1 rw\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := readMountTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "/", rows[0].MountPoint)
	assert.Equal(t, "/mnt/my disk", rows[1].MountPoint)
}
