package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

func setupTestServer(t *testing.T, cfg *config.AnalysisConfig) (*Server, *http.ServeMux) {
	t.Helper()
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	clock.SetStep(10 * time.Millisecond)
	s := NewServer(cfg, WithClock(clock))
	mux := s.ServeMux()
	s.AttachAdminRoutes(mux)
	return s, mux
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}
