package pose

import "github.com/banshee-data/motion.report/internal/timeutil"

// FillFrameGaps expands sparse, analysis-rate results into one slot per
// playback frame in [0, totalFrames). A sparse result whose frame matches
// the slot is used as is; otherwise the previous slot is carried forward,
// or, before the first sample, the first later result is carried back.
// Carried slots get the slot's frame and a fresh timestamp from clock. A
// slot with nothing to carry is nil.
//
// Every returned result is a copy; no slot aliases an input result.
func FillFrameGaps(sparse []AnalysisResult, totalFrames int, clock timeutil.Clock) []*AnalysisResult {
	if totalFrames <= 0 {
		return []*AnalysisResult{}
	}
	clock = timeutil.OrReal(clock)

	dense := make([]*AnalysisResult, totalFrames)
	var last *AnalysisResult
	cursor := 0

	for frame := 0; frame < totalFrames; frame++ {
		if cursor < len(sparse) && sparse[cursor].Frame == frame {
			r := sparse[cursor].Clone()
			dense[frame] = &r
			last = &r
			cursor++
			continue
		}

		src := last
		if src == nil {
			src = firstAfter(sparse, frame)
		}
		if src == nil {
			continue
		}
		r := src.Clone()
		r.Frame = frame
		r.Timestamp = clock.Now().UnixMilli()
		dense[frame] = &r
		last = &r
	}
	return dense
}

func firstAfter(results []AnalysisResult, frame int) *AnalysisResult {
	for i := range results {
		if results[i].Frame > frame {
			return &results[i]
		}
	}
	return nil
}
