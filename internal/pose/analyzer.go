package pose

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

// Frame is an opaque handle to one video frame. Detectors decide which
// fields they need; Image may be nil for keypoint-only sources.
type Frame struct {
	Seq    int           // position in the capture, in analysis order
	Offset time.Duration // position within the source video
	Image  image.Image
}

// Detector turns a frame into zero or more poses.
type Detector interface {
	Detect(ctx context.Context, frame Frame) ([]Pose, error)
}

// Initializer is implemented by detectors that need loading or validation
// before the first Detect call.
type Initializer interface {
	Init(ctx context.Context) error
}

// Analyzer computes per-frame metrics and keeps the rolling state they
// depend on.
type Analyzer struct {
	detector Detector
	clock    timeutil.Clock

	initialized bool
	inFlight    atomic.Bool

	previous   []Pose
	history    *Ring[AnalysisResult]
	velocities *Ring[Vec2]
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the clock used for result timestamps.
func WithClock(c timeutil.Clock) Option {
	return func(a *Analyzer) { a.clock = c }
}

// NewAnalyzer creates an analyzer reading poses from d. Initialize must be
// called before AnalyzeFrame.
func NewAnalyzer(d Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector:   d,
		clock:      timeutil.RealClock{},
		history:    NewRing[AnalysisResult](HistoryCapacity),
		velocities: NewRing[Vec2](VelocityWindow),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.clock = timeutil.OrReal(a.clock)
	return a
}

// Initialize prepares the detector. It is idempotent.
func (a *Analyzer) Initialize(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if a.detector == nil {
		return fmt.Errorf("initialize pose analyzer: no detector configured")
	}
	if init, ok := a.detector.(Initializer); ok {
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("initialize pose analyzer: %w", err)
		}
	}
	a.initialized = true
	monitoring.Logf("pose analyzer initialized (detector %T)", a.detector)
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (a *Analyzer) Initialized() bool { return a.initialized }

// AnalyzeFrame detects poses in frame and derives metrics from the first
// one. The result is recorded in the frame history and its poses become the
// previous pose for the next call. A detection failure is returned as a
// *FrameAnalysisError and leaves the analyzer state unchanged.
func (a *Analyzer) AnalyzeFrame(ctx context.Context, frame Frame, frameIndex int) (AnalysisResult, error) {
	if !a.initialized {
		return AnalysisResult{}, ErrNotInitialized
	}
	if !a.inFlight.CompareAndSwap(false, true) {
		return AnalysisResult{}, ErrAnalysisInFlight
	}
	defer a.inFlight.Store(false)

	poses, err := a.detector.Detect(ctx, frame)
	if err != nil {
		return AnalysisResult{}, &FrameAnalysisError{Frame: frameIndex, Err: err}
	}

	result := AnalysisResult{
		Poses:     poses,
		Metrics:   a.calculateMetrics(poses),
		Frame:     frameIndex,
		Timestamp: a.clock.Now().UnixMilli(),
	}

	a.history.Push(result.Clone())
	a.previous = ClonePoses(poses)
	return result, nil
}

func (a *Analyzer) calculateMetrics(poses []Pose) Metrics {
	if len(poses) == 0 {
		return Metrics{InjuryRisk: InjuryRisk{Overall: RiskLow}}
	}

	kps := NewKeypointSet(poses[0].Keypoints)
	return Metrics{
		Speed:        a.speed(kps),
		JumpHeight:   JumpHeight(kps),
		Cadence:      Cadence(kps),
		AgilityScore: AgilityScore(kps),
		InjuryRisk:   AssessInjuryRisk(kps),
	}
}

// Reset clears the previous pose, the frame history and the velocity
// window. It fails with ErrConcurrentReset while AnalyzeFrame is running.
func (a *Analyzer) Reset() error {
	if a.inFlight.Load() {
		return ErrConcurrentReset
	}
	a.previous = nil
	a.history.Clear()
	a.velocities.Clear()
	return nil
}

// FrameHistory returns copies of the most recent results, oldest first.
func (a *Analyzer) FrameHistory() []AnalysisResult {
	items := a.history.Items()
	for i := range items {
		items[i] = items[i].Clone()
	}
	return items
}
