// Package detect provides pose detectors that feed the analyzer without a
// neural network: a synthetic moving figure for demos and a replay detector
// for recorded keypoints.
package detect

import (
	"context"
	"math"

	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

const (
	syntheticBaseX     = 300.0
	syntheticBaseY     = 200.0
	syntheticAmplitude = 20.0
	syntheticPeriodMs  = 1000.0
	syntheticPoseScore = 0.85
)

// syntheticOffsets positions each keypoint relative to (baseX, baseY).
var syntheticOffsets = []struct {
	name   string
	dx, dy float64
	score  float64
}{
	{pose.Nose, 0, -100, 0.9},
	{pose.LeftShoulder, -30, -50, 0.8},
	{pose.RightShoulder, 30, -50, 0.8},
	{pose.LeftHip, -40, 20, 0.7},
	{pose.RightHip, 40, 20, 0.7},
	{pose.LeftKnee, -35, 100, 0.6},
	{pose.RightKnee, 35, 100, 0.6},
	{pose.LeftAnkle, -30, 180, 0.5},
	{pose.RightAnkle, 30, 180, 0.5},
}

// Synthetic returns a single upright figure that bobs vertically with the
// wall clock. It ignores frame contents.
type Synthetic struct {
	Clock timeutil.Clock
}

// NewSynthetic returns a synthetic detector driven by clock (real time if nil).
func NewSynthetic(clock timeutil.Clock) *Synthetic {
	return &Synthetic{Clock: timeutil.OrReal(clock)}
}

// Detect implements pose.Detector.
func (s *Synthetic) Detect(ctx context.Context, _ pose.Frame) ([]pose.Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := timeutil.OrReal(s.Clock).Now().UnixMilli()
	baseY := syntheticBaseY + math.Sin(float64(now)/syntheticPeriodMs)*syntheticAmplitude

	kps := make([]pose.Keypoint, 0, len(syntheticOffsets))
	for _, o := range syntheticOffsets {
		kps = append(kps, pose.Keypoint{
			X:     syntheticBaseX + o.dx,
			Y:     baseY + o.dy,
			Score: pose.Score(o.score),
			Name:  o.name,
		})
	}
	return []pose.Pose{{Keypoints: kps, Score: pose.Score(syntheticPoseScore)}}, nil
}
