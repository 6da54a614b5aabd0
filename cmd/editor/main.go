package main

import (
	"errors"
	"flag"
	"net/http"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilegrid/config"
	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/physics"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	configPath := flag.String("config", "", "Path to the editor YAML config")
	levelPath := flag.String("level", "", "Level file to edit (overrides the config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if *levelPath != "" {
		cfg.Level = *levelPath
	}
	log := cfg.Logger()
	log.Info("editor starting")

	var metrics *tilemap.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = tilemap.NewMetrics(reg)
		go serveMetrics(cfg.MetricsAddr, reg, log)
	}

	access := tilemap.NewTilemapAccess(tilemap.WithLogger(log), tilemap.WithMetrics(metrics))
	layers, err := cfg.TileLayers()
	if err != nil {
		log.WithError(err).Fatal("invalid layers")
	}
	for _, l := range layers {
		if _, err := access.SpawnMap(cfg.MapConfig(l)); err != nil {
			log.WithError(err).Fatal("failed to spawn tilemap")
		}
	}
	active, err := cfg.Active()
	if err != nil {
		log.WithError(err).Fatal("invalid active layer")
	}

	serializer := levels.NewLevelSerializer(access, log)
	for _, l := range layers {
		path := cfg.LevelPath(l)
		if _, err := os.Stat(path); err == nil {
			// errors are already logged by the serializer
			_ = serializer.LoadFromFile(path, l)
		} else if errors.Is(err, os.ErrNotExist) {
			log.WithField("path", path).Info("level file does not exist yet, starting empty")
		}
	}

	solid, err := cfg.Solid()
	if err != nil {
		log.WithError(err).Fatal("invalid solid layers")
	}
	collisions := physics.NewCollisionWorld(access, solid...)
	defer collisions.Close()

	var watcher *levels.Watcher
	if cfg.Watch {
		paths := make([]string, 0, len(layers))
		for _, l := range layers {
			paths = append(paths, cfg.LevelPath(l))
		}
		watcher, err = levels.NewWatcher(paths...)
		if err != nil {
			log.WithError(err).Warn("level hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	ed := NewEditor(EditorOptions{
		Config:     cfg,
		Access:     access,
		Serializer: serializer,
		Collisions: collisions,
		Watcher:    watcher,
		Layers:     layers,
		Active:     active,
		Log:        log,
	})

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(ed); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("editor exited")
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}
