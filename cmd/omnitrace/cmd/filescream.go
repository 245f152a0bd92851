// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinythings/omnitrace/filescream"
	"github.com/tinythings/omnitrace/internal/sensor"
)

func fileScreamCmd() *cobra.Command {
	var (
		watch  []string
		ignore []string
		pulse  time.Duration
	)

	c := &cobra.Command{
		Use:   "filescream",
		Short: "Watch directory trees for created, changed, and removed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := filescream.DefaultConfig()
			if pulse > 0 {
				cfg.Pulse = pulse
			}

			fs := filescream.New(cfg)
			for _, p := range watch {
				fs.Watch(p)
			}
			for _, p := range ignore {
				fs.Ignore(p)
			}

			hub := sensor.NewHub[filescream.Event]()
			hub.Add(sensor.CallbackFunc[filescream.Event]{
				EventMask: filescream.MaskCreated | filescream.MaskChanged | filescream.MaskRemoved,
				Handler: func(ev filescream.Event) (sensor.Result, bool) {
					printEvent(ev.Kind(), ev)
					return nil, false
				},
			})

			handle := sensor.Spawn[filescream.Event](context.Background(), fs, hub)
			return runUntilInterrupt(handle)
		},
	}

	c.Flags().StringSliceVar(&watch, "watch", nil, "directory to watch (repeatable)")
	c.Flags().StringSliceVar(&ignore, "ignore", nil, "glob pattern to ignore (repeatable)")
	c.Flags().DurationVar(&pulse, "pulse", 0, "polling interval (default 3s)")

	return c
}
