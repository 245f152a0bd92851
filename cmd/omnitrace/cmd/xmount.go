// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinythings/omnitrace/internal/sensor"
	"github.com/tinythings/omnitrace/xmount"
)

func xMountCmd() *cobra.Command {
	var (
		watch         []string
		pulse         time.Duration
		mountinfoPath string
	)

	c := &cobra.Command{
		Use:   "xmount",
		Short: "Watch mount table entries for mounted/unmounted/changed events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := xmount.DefaultConfig()
			if pulse > 0 {
				cfg.Pulse = pulse
			}
			if mountinfoPath != "" {
				cfg.MountinfoPath = mountinfoPath
			}

			x := xmount.New(cfg)
			for _, p := range watch {
				x.Add(p)
			}

			hub := sensor.NewHub[xmount.Event]()
			hub.Add(sensor.CallbackFunc[xmount.Event]{
				EventMask: xmount.MaskMounted | xmount.MaskUnmounted | xmount.MaskChanged,
				Handler: func(ev xmount.Event) (sensor.Result, bool) {
					printEvent(ev.Kind(), ev)
					return nil, false
				},
			})

			handle := sensor.Spawn[xmount.Event](context.Background(), x, hub)
			return runUntilInterrupt(handle)
		},
	}

	c.Flags().StringSliceVar(&watch, "watch", nil, "mountpoint to watch (repeatable)")
	c.Flags().DurationVar(&pulse, "pulse", 0, "polling interval (default 1s)")
	c.Flags().StringVar(&mountinfoPath, "mountinfo", "", "path to mountinfo (Linux only; default /proc/self/mountinfo)")

	return c
}
