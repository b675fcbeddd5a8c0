package pose

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by AnalyzeFrame before Initialize succeeded.
	ErrNotInitialized = errors.New("pose analyzer not initialized")

	// ErrConcurrentReset is returned by Reset while a frame is being analyzed.
	ErrConcurrentReset = errors.New("pose analyzer reset while a frame analysis is in flight")

	// ErrAnalysisInFlight is returned when AnalyzeFrame is entered while
	// another call on the same analyzer has not returned.
	ErrAnalysisInFlight = errors.New("pose analyzer already analyzing a frame")
)

// FrameAnalysisError reports a detection failure for a single frame. The
// analyzer state is unchanged; callers are expected to log and move on.
type FrameAnalysisError struct {
	Frame int
	Err   error
}

func (e *FrameAnalysisError) Error() string {
	return fmt.Sprintf("analyze frame %d: %v", e.Frame, e.Err)
}

func (e *FrameAnalysisError) Unwrap() error { return e.Err }
