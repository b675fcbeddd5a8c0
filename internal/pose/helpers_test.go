package pose

import (
	"context"
	"fmt"
)

// detectorFunc adapts a function to the Detector interface.
type detectorFunc func(ctx context.Context, frame Frame) ([]Pose, error)

func (f detectorFunc) Detect(ctx context.Context, frame Frame) ([]Pose, error) {
	return f(ctx, frame)
}

// sequenceDetector returns poses[frame.Seq], or an error when Seq is out
// of range.
func sequenceDetector(poses ...[]Pose) detectorFunc {
	return func(_ context.Context, frame Frame) ([]Pose, error) {
		if frame.Seq < 0 || frame.Seq >= len(poses) {
			return nil, fmt.Errorf("no frame %d", frame.Seq)
		}
		return poses[frame.Seq], nil
	}
}

func kp(name string, x, y float64) Keypoint {
	return Keypoint{Name: name, X: x, Y: y, Score: Score(0.9)}
}

// torsoPose returns a level standing pose shifted by (dx, dy).
func torsoPose(dx, dy float64) Pose {
	return Pose{
		Keypoints: []Keypoint{
			kp(LeftShoulder, 270+dx, 150+dy),
			kp(RightShoulder, 330+dx, 150+dy),
			kp(LeftHip, 260+dx, 220+dy),
			kp(RightHip, 340+dx, 220+dy),
		},
		Score: Score(0.85),
	}
}

func newTestAnalyzer(d Detector) *Analyzer {
	a := NewAnalyzer(d)
	if err := a.Initialize(context.Background()); err != nil {
		panic(err)
	}
	return a
}
