// Command neothauma opens a window and renders the demo scene.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/neothauma/engine"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/scene"
	"github.com/Carmen-Shannon/neothauma/engine/window"
)

func main() {
	configPath := flag.String("config", "neothauma.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithConfigPath(*configPath),
		engine.WithWindow(window.NewWindow(window.WithConfig(cfg.Window))),
	)
	defer eng.Release()

	sc := scene.NewScene(eng.Renderer(),
		scene.WithName("demo"),
		scene.WithAmbient(cfg.AmbientColor()),
		scene.WithShadowPlanes(cfg.Shadow.Near, cfg.Shadow.Far),
	)
	if err := buildDemo(sc.Store(), cfg, eng.Renderer().Aspect()); err != nil {
		logger.Fatal("demo scene: %v", err)
	}
	eng.AddScene(0, sc)

	logger.Info("running %s at %dx%d", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err := eng.Run(ctx); err != nil {
		logger.Error("%v", err)
		eng.Release()
		os.Exit(1)
	}
}
