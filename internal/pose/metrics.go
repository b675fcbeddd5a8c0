package pose

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric tuning. These are uncalibrated heuristics and must stay fixed so
// results remain comparable across sessions.
const (
	// HistoryCapacity is the number of results kept by FrameHistory.
	HistoryCapacity = 30
	// VelocityWindow is the number of centroid displacements averaged for speed.
	VelocityWindow = 5

	speedScale = 0.15
	maxSpeed   = 15.0

	// standingHipY is the expected pixel row of the hips of a standing subject.
	standingHipY = 400.0
	jumpScale    = 0.1

	cadenceScale = 0.5
	maxCadence   = 180.0 // steps/min

	agilityBase       = 100.0
	agilityTiltFactor = 0.1
)

// Vec2 is a 2-D displacement in pixels.
type Vec2 [2]float64

var torsoKeypoints = []string{LeftHip, RightHip, LeftShoulder, RightShoulder}

// torsoCentroid averages hips and shoulders. ok is false when any of the
// four keypoints is missing.
func torsoCentroid(kps KeypointSet) (Vec2, bool) {
	if !kps.Has(torsoKeypoints...) {
		return Vec2{}, false
	}
	// Scale each term first so large finite coordinates cannot overflow.
	n := float64(len(torsoKeypoints))
	var c Vec2
	for _, name := range torsoKeypoints {
		kp := kps[name]
		c[0] += kp.X / n
		c[1] += kp.Y / n
	}
	return c, true
}

// smoothedSpeed returns the scaled magnitude of the mean displacement in
// window, capped at maxSpeed. A window whose mean is not finite yields 0.
func smoothedSpeed(window []Vec2) float64 {
	if len(window) == 0 {
		return 0
	}
	mean := make([]float64, 2)
	for _, v := range window {
		floats.Add(mean, v[:])
	}
	floats.Scale(1/float64(len(window)), mean)
	norm := floats.Norm(mean, 2)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return 0
	}
	return math.Min(norm*speedScale, maxSpeed)
}

// speed measures torso movement against the previous frame's first pose and
// records the displacement in the velocity window. It returns 0, without
// touching the window, when either frame lacks a torso keypoint.
func (a *Analyzer) speed(current KeypointSet) float64 {
	cur, ok := torsoCentroid(current)
	if !ok || len(a.previous) == 0 {
		return 0
	}
	prev, ok := torsoCentroid(NewKeypointSet(a.previous[0].Keypoints))
	if !ok {
		return 0
	}
	a.velocities.Push(Vec2{cur[0] - prev[0], cur[1] - prev[1]})
	return smoothedSpeed(a.velocities.Items())
}

// JumpHeight estimates how far the hips are above standing height. Hips
// below the baseline count as no jump.
func JumpHeight(kps KeypointSet) float64 {
	l, r, ok := kps.Pair(LeftHip, RightHip)
	if !ok {
		return 0
	}
	hipY := l.Y/2 + r.Y/2
	return math.Max(0, standingHipY-hipY) * jumpScale
}

// Cadence approximates step rate from the vertical ankle separation of a
// single frame.
func Cadence(kps KeypointSet) float64 {
	l, r, ok := kps.Pair(LeftAnkle, RightAnkle)
	if !ok {
		return 0
	}
	return math.Min(math.Abs(l.Y-r.Y)*cadenceScale, maxCadence)
}

// AgilityScore penalises shoulder and hip tilt. Missing pairs add no penalty.
func AgilityScore(kps KeypointSet) float64 {
	score := agilityBase
	if l, r, ok := kps.Pair(LeftShoulder, RightShoulder); ok {
		score -= math.Abs(l.Y-r.Y) * agilityTiltFactor
	}
	if l, r, ok := kps.Pair(LeftHip, RightHip); ok {
		score -= math.Abs(l.Y-r.Y) * agilityTiltFactor
	}
	return math.Max(0, math.Min(agilityBase, score))
}
