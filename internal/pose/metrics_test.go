package pose

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypointSet(t *testing.T) {
	t.Parallel()

	kps := NewKeypointSet([]Keypoint{
		{Name: LeftHip, X: 1, Y: 2, Score: Score(0.35)},
		{Name: LeftHip, X: 9, Y: 9}, // duplicate, ignored
		{Name: RightHip, X: 3, Y: 4},
		{X: 5, Y: 6}, // unnamed, ignored
	})

	assert.Len(t, kps, 2)
	hip, ok := kps.Get(LeftHip)
	require.True(t, ok)
	assert.Equal(t, 1.0, hip.X, "first occurrence wins")

	assert.True(t, kps.Has(LeftHip, RightHip))
	assert.False(t, kps.Has(LeftHip, LeftKnee))

	assert.True(t, kps.Confident(LeftHip, 0.3))
	assert.False(t, kps.Confident(LeftHip, 0.4))
	assert.False(t, kps.Confident(RightHip, 0.3), "unscored keypoints are not confident")
	assert.False(t, kps.Confident(LeftKnee, 0.3))
}

func TestJumpHeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kps  []Keypoint
		want float64
	}{
		{"hips above baseline", []Keypoint{kp(LeftHip, 100, 300), kp(RightHip, 140, 300)}, 10},
		{"uneven hips averaged", []Keypoint{kp(LeftHip, 100, 350), kp(RightHip, 140, 250)}, 10},
		{"hips below baseline", []Keypoint{kp(LeftHip, 100, 450), kp(RightHip, 140, 460)}, 0},
		{"hips at baseline", []Keypoint{kp(LeftHip, 100, 400), kp(RightHip, 140, 400)}, 0},
		{"missing right hip", []Keypoint{kp(LeftHip, 100, 300)}, 0},
		{"no keypoints", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, JumpHeight(NewKeypointSet(tt.kps)), 1e-9)
		})
	}
}

func TestCadence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kps  []Keypoint
		want float64
	}{
		{"level ankles", []Keypoint{kp(LeftAnkle, 0, 380), kp(RightAnkle, 60, 380)}, 0},
		{"separated ankles", []Keypoint{kp(LeftAnkle, 0, 380), kp(RightAnkle, 60, 340)}, 20},
		{"separation is absolute", []Keypoint{kp(LeftAnkle, 0, 340), kp(RightAnkle, 60, 380)}, 20},
		{"capped at 180", []Keypoint{kp(LeftAnkle, 0, 0), kp(RightAnkle, 60, 1000)}, 180},
		{"missing ankle", []Keypoint{kp(LeftAnkle, 0, 380)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cadence(NewKeypointSet(tt.kps)), 1e-9)
		})
	}
}

func TestAgilityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kps  []Keypoint
		want float64
	}{
		{"no pairs", nil, 100},
		{"level hips only", []Keypoint{kp(LeftHip, 100, 300), kp(RightHip, 140, 300)}, 100},
		{"tilted shoulders", []Keypoint{kp(LeftShoulder, 0, 100), kp(RightShoulder, 60, 150)}, 95},
		{"tilted shoulders and hips", []Keypoint{
			kp(LeftShoulder, 0, 100), kp(RightShoulder, 60, 150),
			kp(LeftHip, 0, 300), kp(RightHip, 60, 280),
		}, 93},
		{"half a pair ignored", []Keypoint{kp(LeftShoulder, 0, 100), kp(RightHip, 60, 900)}, 100},
		{"floored at 0", []Keypoint{kp(LeftShoulder, 0, 0), kp(RightShoulder, 60, 5000)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AgilityScore(NewKeypointSet(tt.kps)), 1e-9)
		})
	}
}

func TestSpeed_FirstFrameIsZero(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(sequenceDetector([]Pose{torsoPose(0, 0)}))
	res, err := a.AnalyzeFrame(context.Background(), Frame{Seq: 0}, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Metrics.Speed)
	assert.Equal(t, 0, len(a.velocities.Items()), "first frame must not push a displacement")
}

func TestSpeed_ConstantDisplacementSaturatesWindow(t *testing.T) {
	t.Parallel()

	const frames = 7
	seq := make([][]Pose, frames)
	for i := range seq {
		seq[i] = []Pose{torsoPose(float64(3*i), float64(4*i))}
	}
	a := newTestAnalyzer(sequenceDetector(seq...))

	speeds := make([]float64, frames)
	for i := 0; i < frames; i++ {
		res, err := a.AnalyzeFrame(context.Background(), Frame{Seq: i}, i)
		require.NoError(t, err)
		speeds[i] = res.Metrics.Speed
	}

	assert.Equal(t, 0.0, speeds[0])
	want := math.Min(5*0.15, 15)
	assert.InDelta(t, want, speeds[5], 1e-9)
	assert.InDelta(t, want, speeds[6], 1e-9)
	assert.InDelta(t, 0.75, speeds[6], 1e-9)
	assert.Equal(t, VelocityWindow, len(a.velocities.Items()))
}

func TestSpeed_SmoothsOverWindow(t *testing.T) {
	t.Parallel()

	// one jump of 50px followed by stillness: the window average decays
	// as zero displacements push the jump towards eviction
	positions := []float64{0, 50, 50, 50, 50, 50, 50}
	seq := make([][]Pose, len(positions))
	for i, x := range positions {
		seq[i] = []Pose{torsoPose(x, 0)}
	}
	a := newTestAnalyzer(sequenceDetector(seq...))

	var speeds []float64
	for i := range positions {
		res, err := a.AnalyzeFrame(context.Background(), Frame{Seq: i}, i)
		require.NoError(t, err)
		speeds = append(speeds, res.Metrics.Speed)
	}

	assert.InDelta(t, 50*0.15, speeds[1], 1e-9)
	assert.InDelta(t, 25*0.15, speeds[2], 1e-9)
	assert.InDelta(t, 10*0.15, speeds[5], 1e-9)
	assert.InDelta(t, 0, speeds[6], 1e-9, "jump evicted from the window")
}

func TestSpeed_ClampedAt15(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(sequenceDetector(
		[]Pose{torsoPose(0, 0)},
		[]Pose{torsoPose(1000, 0)},
	))
	ctx := context.Background()
	_, err := a.AnalyzeFrame(ctx, Frame{Seq: 0}, 0)
	require.NoError(t, err)
	res, err := a.AnalyzeFrame(ctx, Frame{Seq: 1}, 1)
	require.NoError(t, err)

	assert.Equal(t, 15.0, res.Metrics.Speed)
}

func TestSpeed_MissingTorsoKeypoints(t *testing.T) {
	t.Parallel()

	partial := torsoPose(10, 10)
	partial.Keypoints = partial.Keypoints[:3] // drop right hip

	tests := []struct {
		name string
		prev Pose
		cur  Pose
	}{
		{"missing in current frame", torsoPose(0, 0), partial},
		{"missing in previous frame", partial, torsoPose(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(sequenceDetector([]Pose{tt.prev}, []Pose{tt.cur}))
			ctx := context.Background()
			_, err := a.AnalyzeFrame(ctx, Frame{Seq: 0}, 0)
			require.NoError(t, err)
			res, err := a.AnalyzeFrame(ctx, Frame{Seq: 1}, 1)
			require.NoError(t, err)

			assert.Equal(t, 0.0, res.Metrics.Speed)
			assert.Equal(t, 0, len(a.velocities.Items()))
		})
	}
}

func TestScenario_HipsOnlyFirstFrame(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(sequenceDetector([]Pose{{Keypoints: []Keypoint{
		kp(LeftHip, 100, 300),
		kp(RightHip, 140, 300),
	}}}))
	res, err := a.AnalyzeFrame(context.Background(), Frame{Seq: 0}, 0)
	require.NoError(t, err)

	assert.InDelta(t, 10, res.Metrics.JumpHeight, 1e-9)
	assert.Equal(t, 0.0, res.Metrics.Speed)
	assert.Equal(t, 100.0, res.Metrics.AgilityScore)
	assert.Equal(t, 0.0, res.Metrics.Cadence)
	assert.Equal(t, RiskLow, res.Metrics.InjuryRisk.Overall)
}

func TestMetrics_Deterministic(t *testing.T) {
	t.Parallel()

	kps := NewKeypointSet([]Keypoint{
		kp(LeftShoulder, 270, 140), kp(RightShoulder, 330, 175),
		kp(LeftHip, 260, 220), kp(RightHip, 340, 230),
		kp(LeftKnee, 250, 300), kp(RightKnee, 350, 300),
		kp(LeftAnkle, 320, 380), kp(RightAnkle, 345, 360),
	})

	first := []float64{JumpHeight(kps), Cadence(kps), AgilityScore(kps)}
	risk := AssessInjuryRisk(kps)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, []float64{JumpHeight(kps), Cadence(kps), AgilityScore(kps)})
		assert.Equal(t, risk, AssessInjuryRisk(kps))
	}
}

func TestMetrics_BoundsHoldForExtremeInput(t *testing.T) {
	t.Parallel()

	coords := []float64{-math.MaxFloat64, -1e6, -500, 0, 0.5, 399, 401, 1e6, math.MaxFloat64}
	for _, y1 := range coords {
		for _, y2 := range coords {
			kps := NewKeypointSet([]Keypoint{
				kp(LeftShoulder, y2, y1), kp(RightShoulder, y1, y2),
				kp(LeftHip, y1, y1), kp(RightHip, y2, y2),
				kp(LeftAnkle, y1, y1), kp(RightAnkle, y2, y2),
			})
			jump := JumpHeight(kps)
			cadence := Cadence(kps)
			agility := AgilityScore(kps)
			c, ok := torsoCentroid(kps)
			require.True(t, ok)
			speed := smoothedSpeed([]Vec2{c, {-c[0], -c[1]}, c})

			assert.GreaterOrEqual(t, speed, 0.0)
			assert.LessOrEqual(t, speed, 15.0)
			assert.False(t, math.IsInf(c[0], 0) || math.IsInf(c[1], 0), "centroid %v", c)
			assert.False(t, math.IsInf(jump, 0))
			assert.GreaterOrEqual(t, jump, 0.0)
			assert.GreaterOrEqual(t, cadence, 0.0)
			assert.LessOrEqual(t, cadence, 180.0)
			assert.GreaterOrEqual(t, agility, 0.0)
			assert.LessOrEqual(t, agility, 100.0)
			assert.False(t, math.IsNaN(speed) || math.IsNaN(jump) || math.IsNaN(cadence) || math.IsNaN(agility))
		}
	}
}

func TestMetrics_SpeedStaysFiniteForHugeCoordinates(t *testing.T) {
	t.Parallel()

	huge := func(v float64) Pose {
		return Pose{Keypoints: []Keypoint{
			kp(LeftShoulder, v, v), kp(RightShoulder, v, v),
			kp(LeftHip, v, v), kp(RightHip, v, v),
		}}
	}
	a := newTestAnalyzer(sequenceDetector(
		[]Pose{huge(math.MaxFloat64)},
		[]Pose{huge(-math.MaxFloat64)},
		[]Pose{huge(math.MaxFloat64)},
		[]Pose{huge(1e308)},
		[]Pose{huge(-1e308)},
	))

	for seq := 0; seq < 5; seq++ {
		res, err := a.AnalyzeFrame(context.Background(), Frame{Seq: seq}, seq)
		require.NoError(t, err)

		m := res.Metrics
		for name, v := range map[string]float64{
			"speed": m.Speed, "jump": m.JumpHeight, "cadence": m.Cadence, "agility": m.AgilityScore,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "frame %d %s = %v", seq, name, v)
		}
		assert.GreaterOrEqual(t, m.Speed, 0.0)
		assert.LessOrEqual(t, m.Speed, 15.0)

		_, err = json.Marshal(res)
		assert.NoError(t, err, "frame %d", seq)
	}
}

func TestSmoothedSpeed_NonFiniteWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, smoothedSpeed([]Vec2{{math.Inf(1), 0}, {math.Inf(-1), 0}}))
	assert.Equal(t, 0.0, smoothedSpeed([]Vec2{{math.Inf(1), 0}}))
	assert.Equal(t, 0.0, smoothedSpeed([]Vec2{{math.NaN(), 1}}))
	assert.InDelta(t, 1.5, smoothedSpeed([]Vec2{{6, 8}, {6, 8}}), 1e-9)
}
