// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/tinythings/omnitrace/internal/sensor"
)

// runUntilInterrupt blocks until Ctrl-C/SIGTERM (triggering a graceful
// shutdown) or the sensor exits on its own, then returns its error.
func runUntilInterrupt(h sensor.Handle) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		h.Shutdown()
	case <-h.Done():
	}

	<-h.Done()
	return h.Err()
}
