// Package web serves the calendar over HTTP: JSON views for the UI, event
// export links, and a server-rendered page used for snapshots.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"calendr/internal/config"
	"calendr/internal/data"
	appLog "calendr/internal/log"
)

// responseCacheTTL bounds how long a rendered JSON body is reused. The
// store already memoizes events; this skips the per-request grid work.
const responseCacheTTL = 30 * time.Second

// Server provides the calendar HTTP API.
type Server struct {
	cfg         *config.Config
	store       *data.Store
	loc         *time.Location
	previewPath string
	now         func() time.Time
	mux         *http.ServeMux

	cacheMu sync.RWMutex
	cache   map[string]cachedResponse
}

type cachedResponse struct {
	body      []byte
	updatedAt time.Time
}

// NewServer constructs a Server reading events from store.
func NewServer(cfg *config.Config, store *data.Store) *Server {
	s := &Server{
		cfg:         cfg,
		store:       store,
		loc:         store.Location(),
		previewPath: cfg.Snapshot.Output,
		now:         time.Now,
		mux:         http.NewServeMux(),
		cache:       make(map[string]cachedResponse),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// InvalidateCache drops every cached JSON response.
func (s *Server) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache = make(map[string]cachedResponse)
	s.cacheMu.Unlock()
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calendr", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/regions", s.handleRegions)
	s.mux.HandleFunc("GET /api/events", s.cached(s.handleEvents))
	s.mux.HandleFunc("GET /api/month", s.cached(s.handleMonth))
	s.mux.HandleFunc("GET /api/year", s.cached(s.handleYear))
	s.mux.HandleFunc("GET /api/week", s.cached(s.handleWeek))
	s.mux.HandleFunc("GET /api/day", s.cached(s.handleDay))
	s.mux.HandleFunc("GET /api/agenda", s.cached(s.handleAgenda))
	s.mux.HandleFunc("GET /api/events/{id}/ics", s.handleEventICS)
	s.mux.HandleFunc("GET /api/events/{id}/gcal", s.handleEventGCal)
	s.mux.HandleFunc("GET /api/export.ics", s.handleExport)
	s.mux.HandleFunc("GET /calendar", s.handleCalendarPage)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last snapshot from disk. http.ServeFile maps a
// missing file to 404.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.previewPath)
}

// cacheParams are the query parameters the cached handlers read. Anything
// else in the query does not change the response and is left out of the key.
var cacheParams = []string{"year", "month", "date", "region", "holidays_only"}

func cacheKey(r *http.Request) string {
	q := r.URL.Query()
	kept := url.Values{}
	for _, p := range cacheParams {
		if v := q.Get(p); v != "" {
			kept.Set(p, v)
		}
	}
	return r.URL.Path + "?" + kept.Encode()
}

// apiFunc builds the JSON body of one API response.
type apiFunc func(ctx context.Context, r *http.Request) (any, error)

// cached serves fn's result as JSON and reuses it for identical queries
// within responseCacheTTL. Errors are never cached, and expired entries are
// dropped whenever a new one is stored.
func (s *Server) cached(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := cacheKey(r)
		now := s.now()

		s.cacheMu.RLock()
		c, ok := s.cache[key]
		s.cacheMu.RUnlock()
		if ok && now.Sub(c.updatedAt) < responseCacheTTL {
			writeRawJSON(w, http.StatusOK, c.body)
			return
		}

		v, err := fn(r.Context(), r)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		body, err := json.Marshal(v)
		if err != nil {
			appLog.Error("failed to encode JSON response", err, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}

		s.cacheMu.Lock()
		for k, c := range s.cache {
			if now.Sub(c.updatedAt) >= responseCacheTTL {
				delete(s.cache, k)
			}
		}
		s.cache[key] = cachedResponse{body: body, updatedAt: now}
		s.cacheMu.Unlock()

		writeRawJSON(w, http.StatusOK, body)
	}
}

// requestError carries a client-facing status for a failed request.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{status: http.StatusBadRequest, msg: msg} }
func notFound(msg string) error   { return &requestError{status: http.StatusNotFound, msg: msg} }

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var re *requestError
	switch {
	case errors.As(err, &re):
		writeError(w, re.status, re.msg)
	case errors.Is(err, data.ErrUnknownRegion):
		writeError(w, http.StatusBadRequest, "unknown region")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
	default:
		appLog.Error("request failed", err, "path", r.URL.Path, "query", r.URL.RawQuery)
		writeError(w, http.StatusInternalServerError, "failed to load events")
	}
}

func parseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
