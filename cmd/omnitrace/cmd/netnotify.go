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
	"github.com/tinythings/omnitrace/netnotify"
)

func netNotifyCmd() *cobra.Command {
	var (
		watch  []string
		ignore []string
		dns    bool
		pulse  time.Duration
	)

	c := &cobra.Command{
		Use:   "netnotify",
		Short: "Watch open TCP/UDP connections for opened/closed events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := netnotify.DefaultConfig()
			if pulse > 0 {
				cfg.Pulse = pulse
			}
			cfg.DNS = dns

			n := netnotify.New(cfg)
			for _, p := range watch {
				n.Add(p)
			}
			for _, p := range ignore {
				n.Ignore(p)
			}

			hub := sensor.NewHub[netnotify.Event]()
			hub.Add(sensor.CallbackFunc[netnotify.Event]{
				EventMask: netnotify.MaskOpened | netnotify.MaskClosed,
				Handler: func(ev netnotify.Event) (sensor.Result, bool) {
					printEvent(ev.Kind(), ev)
					return nil, false
				},
			})

			handle := sensor.Spawn[netnotify.Event](context.Background(), n, hub)
			return runUntilInterrupt(handle)
		},
	}

	c.Flags().StringSliceVar(&watch, "watch", nil, "connection pattern to watch (repeatable)")
	c.Flags().StringSliceVar(&ignore, "ignore", nil, "connection pattern to ignore (repeatable)")
	c.Flags().BoolVar(&dns, "dns", false, "enable reverse-DNS enrichment")
	c.Flags().DurationVar(&pulse, "pulse", 0, "polling interval (default 1s)")

	return c
}
