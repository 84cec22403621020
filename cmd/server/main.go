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

	"github.com/woozymasta/geotext/internal/analyzer"
	"github.com/woozymasta/geotext/internal/config"
	"github.com/woozymasta/geotext/internal/logger"
	"github.com/woozymasta/geotext/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultConfigFile = "config.yaml"

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"      env:"CONFIG_FILE"  description:"Path to configuration file"       default:"config.yaml"`
	Host       string `short:"a" long:"host"        env:"LISTEN_HOST"  description:"Address to listen on"             default:"127.0.0.1"`
	Port       int    `short:"p" long:"port"        env:"LISTEN_PORT"  description:"Port to listen on"                default:"8080"`
	StaticPath string `short:"s" long:"static-path" env:"STATIC_PATH"  description:"Directory holding index.html"     default:"static"`
	MaxBody    int64  `short:"b" long:"max-body"    env:"MAX_BODY"     description:"Maximum request body in bytes"    default:"1048576"`
	Minify     bool   `short:"m" long:"minify"      env:"MINIFY"       description:"Minify the landing page on the fly"`
	Metrics    bool   `long:"metrics"               env:"METRICS"      description:"Expose Prometheus metrics on /metrics"`
}

func main() {
	// Environment from .env is optional and never overrides the real one
	_ = godotenv.Load(".env")

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
	load := config.Load
	if opts.ConfigFile == defaultConfigFile {
		load = config.LoadOrDefault
	}
	cfg, err := load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Patterns are compiled once and shared by every request
	a, err := analyzer.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pattern registry")
	}

	srvCtx := server.NewServerContext(a, server.Options{
		StaticPath: opts.StaticPath,
		MaxBody:    opts.MaxBody,
		Minify:     opts.Minify,
		Metrics:    opts.Metrics,
	})

	listenAddr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", listenAddr).
			Str("order", cfg.Order).
			Int("patterns", a.Registry().Len()).
			Msg("Web server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
