// Package testutil provides shared pose fixtures and HTTP assertions for
// tests.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banshee-data/motion.report/internal/detect"
	"github.com/banshee-data/motion.report/internal/pose"
)

// WalkStep is how far WalkingRecords moves the torso per frame, in pixels.
// At the analyzer's speed scale this is 1.5 per frame once moving.
const WalkStep = 10.0

// Keypoint returns a named keypoint with score 0.9.
func Keypoint(name string, x, y float64) pose.Keypoint {
	return pose.Keypoint{Name: name, X: x, Y: y, Score: pose.Score(0.9)}
}

// TorsoPose returns level shoulders and hips shifted by (dx, dy). The hip
// centre sits at y=220+dy.
func TorsoPose(dx, dy float64) pose.Pose {
	return pose.Pose{
		Keypoints: []pose.Keypoint{
			Keypoint(pose.LeftShoulder, 270+dx, 150+dy),
			Keypoint(pose.RightShoulder, 330+dx, 150+dy),
			Keypoint(pose.LeftHip, 260+dx, 220+dy),
			Keypoint(pose.RightHip, 340+dx, 220+dy),
		},
		Score: pose.Score(0.85),
	}
}

// WalkingRecords returns n replay records of a torso moving WalkStep
// pixels right per frame.
func WalkingRecords(n int) []detect.Record {
	records := make([]detect.Record, n)
	for i := range records {
		records[i] = detect.Record{Frame: i, Poses: []pose.Pose{TorsoPose(float64(i)*WalkStep, 0)}}
	}
	return records
}

// WalkingReplay encodes WalkingRecords(n) as JSON lines.
func WalkingReplay(t *testing.T, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := detect.WriteReplay(&buf, WalkingRecords(n)); err != nil {
		t.Fatalf("encode replay: %v", err)
	}
	return buf.Bytes()
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// LocalRequest creates a request that appears to come from localhost, which
// tsweb debug handlers require.
func LocalRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}
