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
	"github.com/tinythings/omnitrace/procdog"
	"github.com/tinythings/omnitrace/procdog/backends/gopsutilbackend"
	"github.com/tinythings/omnitrace/procdog/backends/goprocbackend"
	"github.com/tinythings/omnitrace/procdog/backends/linuxproc"
)

func procDogCmd() *cobra.Command {
	var (
		watch       []string
		ignore      []string
		emitOnStart bool
		interval    time.Duration
		backendName string
	)

	c := &cobra.Command{
		Use:   "procdog",
		Short: "Watch named processes for appeared/disappeared events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := procdog.DefaultConfig()
			if interval > 0 {
				cfg.Interval = interval
			}
			cfg.EmitMissingOnStart = emitOnStart

			backend, err := resolveProcBackend(backendName)
			if err != nil {
				return err
			}

			d := procdog.New(cfg, backend)
			for _, name := range watch {
				d.Watch(name)
			}
			for _, name := range ignore {
				d.Ignore(name)
			}

			hub := sensor.NewHub[procdog.Event]()
			hub.Add(sensor.CallbackFunc[procdog.Event]{
				EventMask: procdog.MaskAppeared | procdog.MaskDisappeared | procdog.MaskMissing,
				Handler: func(ev procdog.Event) (sensor.Result, bool) {
					printEvent(ev.Kind(), ev)
					return nil, false
				},
			})

			handle := sensor.Spawn[procdog.Event](context.Background(), d, hub)
			return runUntilInterrupt(handle)
		},
	}

	c.Flags().StringSliceVar(&watch, "watch", nil, "process name to watch (repeatable)")
	c.Flags().StringSliceVar(&ignore, "ignore", nil, "process name to ignore (repeatable)")
	c.Flags().BoolVar(&emitOnStart, "emit-missing-on-start", false, "fire Missing if a watched name has no PIDs at startup")
	c.Flags().DurationVar(&interval, "interval", 0, "polling interval (default 1s)")
	c.Flags().StringVar(&backendName, "backend", "gopsutil", "process lister: gopsutil, linuxproc, or goprocbackend")

	return c
}

func resolveProcBackend(name string) (procdog.Backend, error) {
	switch name {
	case "", "gopsutil":
		return gopsutilbackend.New(), nil
	case "linuxproc":
		return linuxproc.New(), nil
	case "goprocbackend", "go-ps":
		return goprocbackend.New(), nil
	default:
		return nil, errUnknownBackend(name)
	}
}

type errUnknownBackend string

func (e errUnknownBackend) Error() string {
	return "procdog: unknown backend " + string(e)
}
