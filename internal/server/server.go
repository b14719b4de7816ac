// Package server exposes the query engine over a small HTTP API.
//
// Endpoints:
//
//	GET /v1/query    resolve, filter and page a dataset
//	GET /v1/plan     compute a pager token sequence
//	GET /v1/sources  list configured sources with load telemetry
//	GET /healthz     liveness probe
//	GET /metrics     Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Genty83/SimplifyTable/internal/config"
	"github.com/Genty83/SimplifyTable/pkg/pageplan"
	"github.com/Genty83/SimplifyTable/pkg/query"
	"github.com/Genty83/SimplifyTable/pkg/source"
	"github.com/Genty83/SimplifyTable/pkg/sourcestats"
	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// Config holds the server's collaborators.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Engine answers queries. Required.
	Engine *query.Engine

	// Stats supplies per-source telemetry for /v1/sources. Optional.
	Stats *sourcestats.Tracker

	// Sources are the named sources requests may refer to.
	Sources []config.SourceConfig
}

// Server is the HTTP API front end.
type Server struct {
	cfg    Config
	http   *http.Server
	logger zerolog.Logger
}

// New creates a server. The engine is required.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server: engine is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		cfg:    cfg,
		logger: log.With().Str("component", "server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/query", instrument("/v1/query", s.handleQuery))
	mux.HandleFunc("GET /v1/plan", instrument("/v1/plan", s.handlePlan))
	mux.HandleFunc("GET /v1/sources", instrument("/v1/sources", s.handleSources))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving the API until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting HTTP API")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP API")
	return s.http.Shutdown(ctx)
}

type errorResponse struct {
	Error  string `json:"error"`
	Source string `json:"source,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawSource := q.Get("source")
	if rawSource == "" {
		writeError(w, http.StatusBadRequest, "source parameter is required", "")
		return
	}

	src, seed, err := s.resolveSource(rawSource)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	params, err := parseParams(q, seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := s.cfg.Engine.Query(r.Context(), src, params)
	if err != nil {
		status := http.StatusBadGateway
		var formatErr *tabular.UnsupportedFormatError
		if errors.As(err, &formatErr) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err.Error(), src.Key())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	current, err := requiredInt(q, "current")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	total, err := requiredInt(q, "total")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	opts := pageplan.DefaultOptions()
	if v := q.Get("onEachSide"); v != "" {
		if opts.OnEachSide, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "onEachSide must be an integer", "")
			return
		}
	}
	if v := q.Get("onEnds"); v != "" {
		if opts.OnEnds, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "onEnds must be an integer", "")
			return
		}
	}
	for name, dst := range map[string]*bool{
		"ellipsis":  &opts.Ellipsis,
		"firstLast": &opts.FirstLast,
		"prevNext":  &opts.PrevNext,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, name+" must be a boolean", "")
				return
			}
			*dst = b
		}
	}

	writeJSON(w, http.StatusOK, pageplan.Build(current, total, opts))
}

type sourceInfo struct {
	Name  string             `json:"name"`
	URL   string             `json:"url"`
	Stats *sourcestats.Stats `json:"stats,omitempty"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	infos := make([]sourceInfo, 0, len(s.cfg.Sources))
	for _, src := range s.cfg.Sources {
		info := sourceInfo{Name: src.Name, URL: src.URL}
		if s.cfg.Stats != nil {
			if stats, ok := s.cfg.Stats.Get(src.URL); ok {
				info.Stats = &stats
			}
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{"sources": infos})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// resolveSource maps a request's source parameter to a source: a
// configured name first, a literal URL otherwise. Named sources also
// yield their binding's default query params.
func (s *Server) resolveSource(raw string) (source.Source, query.Params, error) {
	for _, src := range s.cfg.Sources {
		if src.Name == raw {
			seed := query.Params{Paginate: src.Paginate, Limit: src.Limit}
			return source.Remote(src.URL), seed, nil
		}
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return source.Remote(raw), query.Params{}, nil
	}

	return source.Source{}, query.Params{}, fmt.Errorf("unknown source %q", raw)
}

// parseParams overlays the URL query's control parameters and filters
// onto the source binding's defaults.
func parseParams(q map[string][]string, seed query.Params) (query.Params, error) {
	params := seed

	values := func(name string) string {
		if vs := q[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	if v := values("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("page must be an integer")
		}
		params.Page = n
	}
	if v := values("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("limit must be an integer")
		}
		params.Limit = n
	}
	if v := values("paginate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return params, fmt.Errorf("paginate must be a boolean")
		}
		params.Paginate = b
	}

	filters := make(map[string]string)
	for name, vs := range q {
		if query.Reserved(name) || len(vs) == 0 {
			continue
		}
		filters[name] = vs[0]
	}
	if len(filters) > 0 {
		params.Filters = filters
	}

	return params, nil
}

func requiredInt(q map[string][]string, name string) (int, error) {
	vs := q[name]
	if len(vs) == 0 || vs[0] == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	n, err := strconv.Atoi(vs[0])
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg, sourceKey string) {
	writeJSON(w, status, errorResponse{Error: msg, Source: sourceKey})
}
