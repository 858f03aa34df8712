package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/parkmap/internal/config"
	"github.com/woozymasta/parkmap/internal/icons"
	"github.com/woozymasta/parkmap/internal/logger"
	"github.com/woozymasta/parkmap/internal/mapsurface"
	"github.com/woozymasta/parkmap/internal/server"
	"github.com/woozymasta/parkmap/internal/session"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string        `short:"c" long:"config"        env:"CONFIG_FILE"    description:"Path to configuration file"        default:"config.yaml"`
	Dataset      string        `short:"d" long:"dataset"       env:"DATASET_FILE"   description:"Dataset file, overrides config"`
	Addr         string        `short:"a" long:"addr"          env:"LISTEN_ADDRESS" description:"Address to listen on"              default:"0.0.0.0"`
	Port         int           `short:"p" long:"port"          env:"LISTEN_PORT"    description:"Port to listen on"                 default:"8080"`
	StartTimeout time.Duration `long:"start-timeout"           env:"START_TIMEOUT"  description:"Time to wait for the map to start" default:"30s"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.LoadOrDefault(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Dataset != "" {
		cfg.Dataset.Path = opts.Dataset
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := mapsurface.New(cfg.Map.MinZoom, cfg.Map.MaxZoom)
	sess := session.New(cfg, mapsurface.NewEngine(surface), session.NewStaticGate(cfg.Permissions.Granted))

	startCtx, cancel := context.WithTimeout(ctx, opts.StartTimeout)
	err = sess.Start(startCtx)
	cancel()
	if err != nil {
		var denied *session.PermissionDeniedError
		if errors.As(err, &denied) {
			log.Error().
				Str("permission", denied.Permission).
				Msgf("Required permission '%s' not granted, exiting", denied.Permission)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to start map session")
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go sess.Run(loopCtx)

	iconSet, err := icons.NewSet(sess.Resolver().Icons(), cfg.IconSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render icons")
	}

	srvCtx, err := server.NewServerContext(cfg, sess, surface, iconSet)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Str("dataset", datasetName(cfg)).
		Msg("Web server started")

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
	}

	// drain requests first, they read the markers the session is about to clear
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	stopLoop()
	if err := sess.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Session close failed")
	}
	log.Info().Msg("Web server stopped")
}

func datasetName(cfg *config.Config) string {
	if cfg.Dataset.Path == "" {
		return "embedded"
	}
	return cfg.Dataset.Path
}
