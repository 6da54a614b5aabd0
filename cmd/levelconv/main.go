// Command levelconv validates a level file against an editor config and
// rewrites it, converting between YAML and JSON by file extension.
package main

import (
	"flag"

	"github.com/milk9111/tilegrid/config"
	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
)

// convert loads in onto a fresh layer sized by cfg and, when out is set,
// writes it back out. It returns the number of tiles read.
func convert(cfg config.Config, in, out string, layer tilemap.Layer, log logrus.FieldLogger) (int, error) {
	access := tilemap.NewTilemapAccess(tilemap.WithLogger(log))
	if _, err := access.SpawnMap(cfg.MapConfig(layer)); err != nil {
		return 0, err
	}
	serializer := levels.NewLevelSerializer(access, log)
	if err := serializer.LoadFromFile(in, layer); err != nil {
		return 0, err
	}
	storage, _ := access.Storage(layer)
	if out == "" {
		return storage.Len(), nil
	}
	return storage.Len(), serializer.SaveToFile(out, layer)
}

func main() {
	configPath := flag.String("config", "", "Editor YAML config providing the grid size")
	in := flag.String("in", "", "Level file to read")
	out := flag.String("out", "", "Level file to write; empty only validates")
	layerName := flag.String("layer", "world", "Layer the tiles belong to")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logrus.WithError(err).Fatal("failed to load config")
		}
	}
	log := cfg.Logger()

	if *in == "" {
		log.Fatal("-in is required")
	}
	layer, err := tilemap.ParseLayer(*layerName)
	if err != nil {
		log.WithError(err).Fatal("invalid layer")
	}

	n, err := convert(cfg, *in, *out, layer, log)
	if err != nil {
		log.WithError(err).Fatal("conversion failed")
	}
	fields := logrus.Fields{"path": *in, "layer": layer.Name(), "tiles": n}
	if *out == "" {
		log.WithFields(fields).Info("level is valid")
		return
	}
	fields["out"] = *out
	fields["format"] = levels.FormatForPath(*out).String()
	log.WithFields(fields).Info("converted level")
}
