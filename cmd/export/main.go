package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/woozymasta/parkmap/internal/config"
	"github.com/woozymasta/parkmap/internal/logger"
	"github.com/woozymasta/parkmap/internal/mapsurface"
	"github.com/woozymasta/parkmap/internal/session"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Input      string   `short:"i" long:"in"      description:"Dataset file. Uses the embedded dataset if empty"`
	Output     string   `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format     string   `short:"f" long:"format"  description:"Output format" choice:"geojson" choice:"kml" default:"geojson"`
	Title      string   `short:"t" long:"title"   description:"Document title, defaults to the configured title"`
	Clusters   []string `long:"cluster"           description:"Attach the cluster of a category (repeatable)" choice:"private" choice:"paid" choice:"free"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.LoadOrDefault(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Input != "" {
		cfg.Dataset.Path = opts.Input
	}
	if len(opts.Clusters) > 0 {
		cfg.Visible = append(cfg.Visible, opts.Clusters...)
		if err := cfg.Normalize(); err != nil {
			log.Fatal().Err(err).Msg("Invalid cluster selection")
		}
	}
	if opts.Title == "" {
		opts.Title = cfg.Title
	}

	surface := mapsurface.New(cfg.Map.MinZoom, cfg.Map.MaxZoom)

	// Offline export has no one to ask, required permissions count as granted
	sess := session.New(cfg, mapsurface.NewEngine(surface), session.NewStaticGate(cfg.Permissions.Required))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sess.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to render dataset")
	}

	if err := export(surface, opts); err != nil {
		log.Fatal().Err(err).Str("format", opts.Format).Msg("Export failed")
	}

	log.Info().
		Int("markers", len(surface.Markers())).
		Int("clusters", len(surface.Clusters())).
		Str("format", opts.Format).
		Str("out", opts.Output).
		Msg("Export finished")
}

func export(surface *mapsurface.Map, opts Options) error {
	if opts.Output == "" {
		return write(os.Stdout, surface, opts)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", opts.Output).Msg("Failed to close file")
		}
	}()

	return write(f, surface, opts)
}

func write(w io.Writer, surface *mapsurface.Map, opts Options) error {
	if opts.Format == "kml" {
		return surface.WriteKML(w, opts.Title)
	}
	return surface.WriteGeoJSON(w, nil)
}
