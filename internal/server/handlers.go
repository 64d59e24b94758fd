package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// ErrInvalidParameter is returned for malformed query parameters.
var ErrInvalidParameter = errors.New("invalid query parameter")

var contentTypes = map[config.Format]string{
	config.FormatText:  "text/plain; charset=utf-8",
	config.FormatTable: "text/plain; charset=utf-8",
	config.FormatJSON:  "application/json",
	config.FormatYAML:  "application/yaml",
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.reportConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	cfg.Format = config.FormatJSON
	s.render(w, cfg)
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cfg, err := s.reportConfig(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	cfg.Format = config.FormatText

	if raw := query.Get("format"); raw != "" {
		if cfg.Format, err = config.ParseFormat(raw); err != nil {
			writeError(w, http.StatusBadRequest, err)

			return
		}
	}

	s.render(w, cfg)
}

func (s *Server) render(w http.ResponseWriter, cfg *config.ReportConfig) {
	opts, err := report.OptionsFrom(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	renderer, err := report.New(cfg.Format, report.RenderOptions{Theme: color.NewTheme(false)})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	snap := report.NewSnapshot(s.registry.Query(opts), report.SourceOf(s.registry.Clock()))

	var buf bytes.Buffer
	if err := renderer.Render(&buf, snap); err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", contentTypes[cfg.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) reset(w http.ResponseWriter, _ *http.Request) {
	s.registry.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"profiles": s.registry.Len(),
	})
}

// reportConfig overlays query parameters on the configured report defaults.
func (s *Server) reportConfig(query url.Values) (*config.ReportConfig, error) {
	cfg := s.defaults
	cfg.Names = append([]string(nil), s.defaults.Names...)

	var err error

	if raw := query.Get("sort"); raw != "" {
		if cfg.Sort, err = config.ParseSortKey(raw); err != nil {
			return nil, err
		}
	}

	if raw := query.Get("reverse"); raw != "" {
		if cfg.Reverse, err = strconv.ParseBool(raw); err != nil {
			return nil, errors.Wrapf(ErrInvalidParameter, "reverse: %q", raw)
		}
	}

	if raw := query.Get("min_calls"); raw != "" {
		if cfg.MinCalls, err = strconv.ParseInt(raw, 10, 64); err != nil || cfg.MinCalls < 0 {
			return nil, errors.Wrapf(ErrInvalidParameter, "min_calls: %q", raw)
		}
	}

	thresholds := map[string]*float64{
		"min_elapsed":      &cfg.MinElapsed,
		"min_average":      &cfg.MinAverage,
		"min_self":         &cfg.MinSelf,
		"min_self_average": &cfg.MinSelfAverage,
	}

	for key, dst := range thresholds {
		raw := query.Get(key)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) {
			return nil, errors.Wrapf(ErrInvalidParameter, "%s: %q", key, raw)
		}

		*dst = v
	}

	if names := query["name"]; len(names) > 0 {
		if err := timemap.ValidatePatterns(names); err != nil {
			return nil, err
		}

		cfg.Names = names
	}

	return &cfg, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
