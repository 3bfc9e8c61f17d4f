/*
Command anima loads Wavefront .obj models and welds them into vertex and
index buffers with triangle adjacency.

	anima [-config anima.toml] [-strategy hashed|linear] [file.obj ...]

Without file arguments every model under assets.base_path is loaded.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima/engine"
	"github.com/spaghettifunk/anima/engine/core"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	strategy := flag.String("strategy", "", "vertex welding strategy: hashed or linear")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *strategy != "" {
		cfg.Weld.Strategy = *strategy
		if err := cfg.Validate(); err != nil {
			core.LogFatal(err.Error())
		}
	}

	e, err := engine.New(cfg)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	var reports []engine.Report
	if flag.NArg() > 0 {
		reports, err = e.LoadFiles(flag.Args())
	} else {
		reports, err = e.LoadAssets()
	}
	for _, r := range reports {
		core.LogInfo("%s: %s, %d triangles, %d vertices, %d indices, center %s",
			r.Name, r.Topology, r.Triangles, r.Vertices, r.Indices, r.Center)
	}

	if err == nil && flag.NArg() == 0 {
		err = e.Run(ctx)
	}
	if shutdownErr := e.Shutdown(); shutdownErr != nil {
		core.LogError(shutdownErr.Error())
	}
	if err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}

// loadConfig reads path, or anima.toml from the working directory when it
// exists. Defaults are used otherwise.
func loadConfig(path string) (*core.Config, error) {
	if path != "" {
		return core.LoadConfig(path)
	}
	cfg, err := core.LoadConfig("anima.toml")
	if errors.Is(err, os.ErrNotExist) {
		return core.DefaultConfig(), nil
	}
	return cfg, err
}
