package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/geotext/internal/analyzer"
	"github.com/woozymasta/geotext/internal/config"
	"github.com/woozymasta/geotext/internal/logger"
	"github.com/woozymasta/geotext/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file (defaults are used if empty)"`
	Output      string `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format      string `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" choice:"geojson" default:"json"`
	Concurrency int    `short:"j" long:"concurrency" env:"CONCURRENCY" description:"Files analysed in parallel" default:"4"`

	Args struct {
		Files []string `positional-arg-name:"FILE" description:"Text files to scan. Reads from stdin if none"`
	} `positional-args:"yes"`
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

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	a, err := analyzer.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pattern registry")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []processor.Result
	if len(opts.Args.Files) == 0 {
		results = []processor.Result{processor.ProcessReader(a, processor.StdinName, os.Stdin)}
	} else {
		log.Info().
			Int("files", len(opts.Args.Files)).
			Int("concurrency", opts.Concurrency).
			Msg("Starting scan")
		results = processor.ProcessFiles(ctx, a, opts.Args.Files, opts.Concurrency)
	}

	failed, found := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error().Err(r.Err).Str("input", r.Name).Msg("Failed to analyze input")
			continue
		}
		found += len(r.Set.Records)
	}

	if opts.Output != "" {
		err = processor.SaveFile(opts.Output, results, opts.Format)
	} else {
		err = processor.Write(os.Stdout, results, opts.Format)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}

	log.Info().
		Int("inputs", len(results)).
		Int("failed", failed).
		Int("coordinates", found).
		Str("format", opts.Format).
		Msg("Scan finished")

	if failed > 0 {
		stop()
		os.Exit(1)
	}
}
