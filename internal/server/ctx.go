package server

import (
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/woozymasta/geotext/internal/analyzer"
)

// DefaultMaxBody limits the size of an analyze request body.
const DefaultMaxBody = 1 << 20

// Options configure the HTTP layer.
type Options struct {
	StaticPath string
	MaxBody    int64
	Minify     bool
	Metrics    bool
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Analyzer  *analyzer.Analyzer
	IndexPath string
	MaxBody   int64

	minifier *minify.M
	metrics  bool
}

// NewServerContext wires the shared analyzer into the handlers.
func NewServerContext(a *analyzer.Analyzer, opts Options) *ServerContext {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}

	s := &ServerContext{
		Analyzer:  a,
		IndexPath: filepath.Join(opts.StaticPath, "index.html"),
		MaxBody:   opts.MaxBody,
		metrics:   opts.Metrics,
	}

	if opts.Minify {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.AddFunc("text/html", html.Minify)
		m.AddFunc("text/javascript", js.Minify)
		s.minifier = m
	}

	log.Info().
		Int("patterns", a.Registry().Len()).
		Str("index", s.IndexPath).
		Int64("max_body", s.MaxBody).
		Bool("minify", opts.Minify).
		Bool("metrics", opts.Metrics).
		Msg("Server context initialized")

	return s
}

// Routes registers every endpoint and wraps the mux with the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.HandleAnalyze)
	mux.HandleFunc("/analyze/geojson", s.HandleAnalyzeGeoJSON)
	if s.metrics {
		mux.Handle("/metrics", MetricsHandler())
	}
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
