// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package cmd wires omnitrace's four sensors to a cobra command tree. It
// is thin glue: config loading, flag parsing, stdout printing, and
// Ctrl-C handling live here so the sensor packages stay free of CLI
// concerns.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/tinythings/omnitrace/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// Root builds the omnitrace command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "omnitrace",
		Short: "Host observability sensors: files, connections, processes, mounts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetLevel(zapcore.DebugLevel)
			}
			return initConfig()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./omnitrace.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(fileScreamCmd())
	root.AddCommand(netNotifyCmd())
	root.AddCommand(procDogCmd())
	root.AddCommand(xMountCmd())

	return root
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("omnitrace")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("OMNITRACE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// printEvent renders any sensor event as one JSON line on stdout.
func printEvent(kind string, payload any) {
	line, err := json.Marshal(struct {
		Kind  string `json:"kind"`
		Event any    `json:"event"`
	}{Kind: kind, Event: payload})
	if err != nil {
		logging.Errorf("failed to marshal event: %v", err)
		return
	}
	fmt.Println(string(line))
}
