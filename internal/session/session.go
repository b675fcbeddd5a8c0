// Package session runs the pose analyzer over a whole capture: a recorded
// video sampled at the analysis rate, or a fixed-length live capture.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/timeutil"
	"github.com/banshee-data/motion.report/internal/units"
)

// Mode selects how frames are sampled.
type Mode string

const (
	// ModeFile samples a recorded video of known duration.
	ModeFile Mode = "file"
	// ModeLive analyzes a fixed-length camera capture frame by frame.
	ModeLive Mode = "live"
)

// ParseMode validates a mode string. Empty selects ModeFile.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFile:
		return ModeFile, nil
	case ModeLive:
		return ModeLive, nil
	}
	return "", fmt.Errorf("unknown session mode %q (valid: file, live)", s)
}

// ErrSessionRunning is returned by Run while another session is using the
// same runner.
var ErrSessionRunning = errors.New("session already running")

// Seeker supplies frame images. It is optional; keypoint-only detectors
// work without one.
type Seeker interface {
	FrameAt(ctx context.Context, offset time.Duration) (image.Image, error)
}

// Request describes one session.
type Request struct {
	Mode Mode
	// Duration is the video length in file mode. Live sessions use the
	// configured webcam duration.
	Duration time.Duration
	Seeker   Seeker
}

// Progress is reported every ui_update_every analyzed frames.
type Progress struct {
	SessionID string
	Analyzed  int
	Total     int
	Latest    pose.AnalysisResult
}

// Runner drives a pose.Analyzer through a session.
type Runner struct {
	cfg      *config.AnalysisConfig
	analyzer *pose.Analyzer
	clock    timeutil.Clock
	progress func(Progress)
	every    int // analyzed results between progress callbacks
	newID    func() string

	running atomic.Bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for gap-filled timestamps and report times.
func WithClock(c timeutil.Clock) Option { return func(r *Runner) { r.clock = c } }

// WithProgress registers a progress callback.
func WithProgress(fn func(Progress)) Option { return func(r *Runner) { r.progress = fn } }

// WithIDGenerator replaces the session ID source.
func WithIDGenerator(fn func() string) Option { return func(r *Runner) { r.newID = fn } }

// NewRunner creates a runner. A nil cfg uses defaults; a ui_update_every
// below one reports progress after every result.
func NewRunner(cfg *config.AnalysisConfig, analyzer *pose.Analyzer, opts ...Option) *Runner {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	r := &Runner{
		cfg:      cfg,
		analyzer: analyzer,
		every:    max(1, cfg.GetUIUpdateEvery()),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.clock = timeutil.OrReal(r.clock)
	return r
}

// Run resets the analyzer and analyzes every frame of the session. Frame
// failures are logged, counted and skipped. When ctx is cancelled Run stops
// and returns the partial report together with ctx.Err().
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if r.analyzer == nil {
		return nil, fmt.Errorf("run session: no analyzer configured")
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrSessionRunning
	}
	defer r.running.Store(false)

	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	if err := r.analyzer.Reset(); err != nil {
		return nil, fmt.Errorf("reset analyzer: %w", err)
	}
	if err := r.analyzer.Initialize(ctx); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          r.newID(),
		Mode:        mode,
		StartedAt:   r.clock.Now(),
		PlaybackFPS: r.cfg.GetPlaybackFPS(),
		SpeedUnits:  units.MPS,
	}

	switch mode {
	case ModeLive:
		err = r.runLive(ctx, req, rep)
	default:
		err = r.runFile(ctx, req, rep)
	}

	rep.Summary = Summarize(rep.Results)
	monitoring.Sessionf(rep.ID, "%s session finished: %d/%d frames analyzed, %d failed, risk %s",
		rep.Mode, len(rep.Results), rep.AnalysisFrames, rep.Failed, rep.Summary.Risk)
	return rep, err
}

func (r *Runner) runFile(ctx context.Context, req Request, rep *Report) error {
	if req.Duration <= 0 {
		return fmt.Errorf("file session requires a positive duration, got %s", req.Duration)
	}
	playbackFPS := r.cfg.GetPlaybackFPS()
	analysisFPS := r.cfg.GetAnalysisFPS()
	seconds := req.Duration.Seconds()

	rep.Duration = req.Duration
	rep.AnalysisFPS = analysisFPS
	rep.AnalysisFrames = int(math.Floor(seconds * analysisFPS))
	rep.TotalFrames = int(math.Floor(seconds * playbackFPS))
	monitoring.Sessionf(rep.ID, "analyzing %s of video: %d frames at %.1f fps", req.Duration, rep.AnalysisFrames, analysisFPS)

	for i := 0; i < rep.AnalysisFrames; i++ {
		t := float64(i) / analysisFPS
		res, ok, err := r.analyze(ctx, req, rep, i, t)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		// i*playback/analysis rather than t*playback keeps exact ratios exact.
		res.Frame = int(math.Floor(float64(i) * playbackFPS / analysisFPS))
		r.record(rep, res)
	}

	rep.Dense = pose.FillFrameGaps(rep.Results, rep.TotalFrames, r.clock)
	return nil
}

func (r *Runner) runLive(ctx context.Context, req Request, rep *Report) error {
	playbackFPS := r.cfg.GetPlaybackFPS()
	d := r.cfg.GetWebcamDuration()

	rep.Duration = d
	rep.AnalysisFPS = playbackFPS
	rep.TotalFrames = int(math.Floor(d.Seconds() * playbackFPS))
	rep.AnalysisFrames = rep.TotalFrames
	monitoring.Sessionf(rep.ID, "live capture for %s: %d frames", d, rep.TotalFrames)

	for i := 0; i < rep.TotalFrames; i++ {
		res, ok, err := r.analyze(ctx, req, rep, i, float64(i)/playbackFPS)
		if err != nil {
			return err
		}
		if ok {
			r.record(rep, res)
		}
	}
	return nil
}

// analyze runs one frame. ok is false for a skipped frame; err is only set
// when the session must stop.
func (r *Runner) analyze(ctx context.Context, req Request, rep *Report, i int, t float64) (pose.AnalysisResult, bool, error) {
	if err := ctx.Err(); err != nil {
		monitoring.Sessionf(rep.ID, "cancelled after %d frames: %v", i, err)
		return pose.AnalysisResult{}, false, err
	}

	frame := pose.Frame{Seq: i, Offset: time.Duration(math.Round(t * float64(time.Second)))}
	if req.Seeker != nil {
		img, err := req.Seeker.FrameAt(ctx, frame.Offset)
		if err != nil {
			rep.Failed++
			monitoring.Sessionf(rep.ID, "frame %d at %s: seek failed: %v", i, frame.Offset, err)
			return pose.AnalysisResult{}, false, nil
		}
		frame.Image = img
	}

	res, err := r.analyzer.AnalyzeFrame(ctx, frame, i)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return pose.AnalysisResult{}, false, ctxErr
		}
		rep.Failed++
		monitoring.Sessionf(rep.ID, "%v", err)
		return pose.AnalysisResult{}, false, nil
	}
	return res, true, nil
}

func (r *Runner) record(rep *Report, res pose.AnalysisResult) {
	rep.Results = append(rep.Results, res)
	if r.progress != nil && len(rep.Results)%r.every == 0 {
		r.progress(Progress{
			SessionID: rep.ID,
			Analyzed:  len(rep.Results),
			Total:     rep.AnalysisFrames,
			Latest:    res.Clone(),
		})
	}
}
