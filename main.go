// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"signallab/cmd"
	"signallab/internal/config"
	"signallab/internal/log"
	"signallab/pkg/build"
)

// main is the entry point for the signal analysis application.
//
// 1. Startup: build information, CLI arguments, .env and YAML
// configuration, log level.
//
// 2. Command: list, generate and analyze run once and exit; serve blocks
// until SIGINT or SIGTERM.
//
// 3. Shutdown: the HTTP server drains and the logger is flushed.
func main() {
	// ==================== STARTUP PHASE ====================

	// Initialize build information including version, commit hash, and build time.
	// Development builds run without ldflags and keep the defaults.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info: %v", err)
	}

	// Parse command line arguments
	options, err := cmd.ParseArgs()
	if err != nil {
		log.Fatal(err)
	}
	if options.Command == "" {
		return
	}

	if err := config.LoadEnvFile(options.EnvFile); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	if options.Verbose {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	defer log.Sync()

	if options.SeedSet {
		cfg.Synthetic.Seed = options.Seed
	}
	if options.Serve.Addr != "" {
		cfg.Server.Addr = options.Serve.Addr
	}

	// ==================== COMMAND PHASE ====================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := executeCommand(ctx, options, cfg, os.Stdout); err != nil {
		log.Error(err)
		log.Sync()
		stop()
		os.Exit(1)
	}
}
