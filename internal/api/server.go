// Package api serves pose analysis sessions over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/httputil"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// maxUploadBytes bounds a replay upload.
const maxUploadBytes = 32 << 20

// Server runs analysis sessions and keeps the most recent reports in memory.
type Server struct {
	cfg      *config.AnalysisConfig
	clock    timeutil.Clock
	sessions *sessionStore
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithClock sets the clock used for result timestamps.
func WithClock(c timeutil.Clock) ServerOption {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a server. A nil cfg uses defaults.
func NewServer(cfg *config.AnalysisConfig, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	s := &Server{
		cfg:      cfg,
		sessions: newSessionStore(cfg.GetMaxSessions()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clock = timeutil.OrReal(s.clock)
	return s
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /api/analysis/{id}", s.showAnalysis)
	mux.HandleFunc("GET /api/analysis/{id}/chart", s.showAnalysisChart)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := map[string]interface{}{
		"playback_fps":       s.cfg.GetPlaybackFPS(),
		"analysis_fps_cap":   s.cfg.GetAnalysisFPSCap(),
		"analysis_fps":       s.cfg.GetAnalysisFPS(),
		"webcam_duration":    s.cfg.GetWebcamDuration().String(),
		"min_keypoint_score": s.cfg.GetMinKeypointScore(),
		"ui_update_every":    s.cfg.GetUIUpdateEvery(),
		"units":              s.cfg.GetSpeedUnits(),
		"max_sessions":       s.cfg.GetMaxSessions(),
		"max_duration":       s.cfg.GetMaxDuration().String(),
	}
	httputil.WriteJSON(w, http.StatusOK, cfg)
}
