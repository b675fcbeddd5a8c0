package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/motion.report/internal/detect"
	"github.com/banshee-data/motion.report/internal/httputil"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/report"
	"github.com/banshee-data/motion.report/internal/session"
	"github.com/banshee-data/motion.report/internal/units"
)

// sessionListing is one row of GET /api/analysis.
type sessionListing struct {
	ID        string          `json:"id"`
	Mode      session.Mode    `json:"mode"`
	StartedAt time.Time       `json:"startedAt"`
	Frames    int             `json:"frames"`
	Failed    int             `json:"failed"`
	Summary   session.Summary `json:"summary"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		s.createAnalysis(w, r)
		return
	}
	s.listAnalyses(w, r)
}

// maxDurationSeconds keeps parsed seconds inside time.Duration's range.
const maxDurationSeconds = float64(math.MaxInt64 / int64(time.Second))

// parseDuration accepts a Go duration ("12.5s") or plain seconds ("12.5").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(secs) || math.Abs(secs) > maxDurationSeconds {
			return 0, fmt.Errorf("duration %q out of range", v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

// speedUnits reads ?units=, falling back to the configured units.
func (s *Server) speedUnits(r *http.Request) (string, error) {
	if u := r.URL.Query().Get("units"); u != "" {
		return units.Parse(u)
	}
	return s.cfg.GetSpeedUnits(), nil
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := session.ParseMode(q.Get("mode"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "%v", err)
		return
	}
	speedUnits, err := s.speedUnits(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "%v", err)
		return
	}

	var duration time.Duration
	if d := q.Get("duration"); d != "" {
		duration, err = parseDuration(d)
		if err != nil || duration <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid 'duration' parameter")
			return
		}
		if limit := s.cfg.GetMaxDuration(); mode == session.ModeFile && duration > limit {
			httputil.WriteError(w, http.StatusBadRequest, "'duration' %s exceeds the %s limit", duration, limit)
			return
		}
	} else if mode == session.ModeFile {
		httputil.WriteError(w, http.StatusBadRequest, "Missing 'duration' parameter")
		return
	}

	var detector pose.Detector
	if q.Get("detector") == "synthetic" {
		detector = detect.NewSynthetic(s.clock)
	} else {
		replay, err := detect.LoadReplay(http.MaxBytesReader(w, r.Body, maxUploadBytes))
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid keypoint upload: %v", err)
			return
		}
		detector = replay
	}

	analyzer := pose.NewAnalyzer(detector, pose.WithClock(s.clock))
	runner := session.NewRunner(s.cfg, analyzer, session.WithClock(s.clock))

	rep, err := runner.Run(r.Context(), session.Request{Mode: mode, Duration: duration})
	switch {
	case err == nil:
	case errors.Is(err, detect.ErrEmptyReplay):
		httputil.WriteError(w, http.StatusBadRequest, "Keypoint upload contains no frames")
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		if rep != nil {
			monitoring.Sessionf(rep.ID, "request ended before the session finished")
		}
		httputil.WriteError(w, http.StatusServiceUnavailable, "Analysis cancelled")
		return
	default:
		httputil.WriteError(w, http.StatusInternalServerError, "Analysis failed: %v", err)
		return
	}

	s.sessions.put(rep)
	w.Header().Set("Location", "/api/analysis/"+rep.ID)
	httputil.WriteJSON(w, http.StatusCreated, rep.WithSpeedUnits(speedUnits))
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	speedUnits, err := s.speedUnits(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "%v", err)
		return
	}

	reports := s.sessions.list()
	out := make([]sessionListing, 0, len(reports))
	for _, rep := range reports {
		summary := rep.Summary
		summary.MeanSpeed = units.ConvertSpeed(summary.MeanSpeed, speedUnits)
		summary.PeakSpeed = units.ConvertSpeed(summary.PeakSpeed, speedUnits)
		out = append(out, sessionListing{
			ID:        rep.ID,
			Mode:      rep.Mode,
			StartedAt: rep.StartedAt,
			Frames:    len(rep.Results),
			Failed:    rep.Failed,
			Summary:   summary,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) showAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	speedUnits, err := s.speedUnits(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "%v", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep.WithSpeedUnits(speedUnits))
}

func (s *Server) showAnalysisChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rep, ok := s.sessions.get(id)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	speedUnits, err := s.speedUnits(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "%v", err)
		return
	}

	view := report.View{SpeedUnits: speedUnits, MinKeypointScore: s.cfg.GetMinKeypointScore()}
	var buf bytes.Buffer
	if err := report.Dashboard(&buf, id, rep.WithSpeedUnits(speedUnits).Timeline(), view); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "render error: %v", err)
		return
	}
	httputil.WriteHTML(w, buf.Bytes())
}
