// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geotext/internal/geo"
)

const (
	etagCap   = 64
	noneLabel = "None"
)

type analyzeRequest struct {
	Text *string `json:"text"`
}

type coordinateResponse struct {
	Original        string         `json:"original"`
	NormalizedDD    string         `json:"normalized_dd"`
	LatDD           float64        `json:"lat_dd"`
	LonDD           float64        `json:"lon_dd"`
	Format          geo.Format     `json:"format"`
	IsValid         bool           `json:"is_valid"`
	Label           string         `json:"label"`
	SentenceContext string         `json:"sentence_context"`
	Errors          []geo.ErrorTag `json:"errors,omitempty"`
}

type analyzeResponse struct {
	CoordinateType geo.SetType          `json:"coordinate_type"`
	TotalFound     int                  `json:"total_found"`
	Coordinates    []coordinateResponse `json:"coordinates"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleAnalyze extracts coordinates from the posted text.
func (s *ServerContext) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	set, ok := s.analyze(w, r)
	if !ok {
		return
	}

	resp := analyzeResponse{
		CoordinateType: set.Type,
		TotalFound:     len(set.Records),
		Coordinates:    make([]coordinateResponse, 0, len(set.Records)),
	}
	for _, rec := range set.Records {
		resp.Coordinates = append(resp.Coordinates, newCoordinateResponse(rec))
	}

	writeJSON(w, http.StatusOK, "application/json", resp)
}

// HandleAnalyzeGeoJSON returns the extracted coordinates as a FeatureCollection.
func (s *ServerContext) HandleAnalyzeGeoJSON(w http.ResponseWriter, r *http.Request) {
	set, ok := s.analyze(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, "application/geo+json", geo.FeatureCollection(set))
}

// analyze validates the request and runs the analyzer. On failure the error
// response is already written.
func (s *ServerContext) analyze(w http.ResponseWriter, r *http.Request) (geo.Set, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")
		return geo.Set{}, false
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, string(geo.TagBadRequest), "Content-Type must be application/json")
		return geo.Set{}, false
	}

	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, string(geo.TagBadRequest),
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return geo.Set{}, false
		}
		writeError(w, http.StatusBadRequest, string(geo.TagBadRequest), "invalid JSON: "+err.Error())
		return geo.Set{}, false
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, string(geo.TagBadRequest), `field "text" is required`)
		return geo.Set{}, false
	}

	start := time.Now()
	set := s.Analyzer.Analyze(*req.Text)
	observeAnalysis(set, time.Since(start))

	log.Debug().
		Int("bytes", len(*req.Text)).
		Int("found", len(set.Records)).
		Str("set_type", set.Type.String()).
		Msg("Text analyzed")

	return set, true
}

func newCoordinateResponse(rec geo.Record) coordinateResponse {
	label := rec.Label
	if label == "" {
		label = noneLabel
	}

	return coordinateResponse{
		Original:        rec.RawMatch,
		NormalizedDD:    normalizedDD(rec.Lat, rec.Lon),
		LatDD:           rec.Lat,
		LonDD:           rec.Lon,
		Format:          rec.Format,
		IsValid:         rec.Valid,
		Label:           label,
		SentenceContext: rec.Snippet,
		Errors:          rec.Errors,
	}
}

// normalizedDD renders absolute values with hemisphere letters, e.g. "51.2089N 0.0868E".
func normalizedDD(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f%s %.4f%s", math.Abs(lat), ns, math.Abs(lon), ew)
}

// HandleIndex serves the landing page from the static directory.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, string(geo.TagNotFound), "no such resource: "+r.URL.Path)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	if !s.serveFile(w, r, s.IndexPath, "text/html; charset=utf-8") {
		writeError(w, http.StatusNotFound, string(geo.TagNotFound), "index page not found")
	}
}

// serveFile serves a file from disk with ETag generation, minifying HTML
// when enabled. It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read static file")
		return false
	}

	if s.minifier != nil {
		if out, err := s.minifier.Bytes("text/html", data); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Minification failed, serving original")
		} else {
			data = out
		}
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, int64(len(data)), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')

	w.Header().Set("ETag", string(buf))
	w.Header().Set("Cache-Control", "public, no-cache")
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	// ServeContent answers If-None-Match against the ETag set above.
	http.ServeContent(w, r, info.Name(), info.ModTime(), bytes.NewReader(data))
	return true
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, "application/json", errorResponse{Error: msg, Code: code})
}
