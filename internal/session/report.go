package session

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/units"
)

// Report is the outcome of one session. Results holds the analyzed frames
// with playback frame numbers; Dense is the gap-filled timeline (file mode
// only, nil slots where nothing could be carried).
type Report struct {
	ID             string                 `json:"id"`
	Mode           Mode                   `json:"mode"`
	StartedAt      time.Time              `json:"startedAt"`
	Duration       time.Duration          `json:"duration"`
	PlaybackFPS    float64                `json:"playbackFps"`
	AnalysisFPS    float64                `json:"analysisFps"`
	AnalysisFrames int                    `json:"analysisFrames"`
	TotalFrames    int                    `json:"totalFrames"`
	Results        []pose.AnalysisResult  `json:"results"`
	Dense          []*pose.AnalysisResult `json:"dense,omitempty"`
	Failed         int                    `json:"failed"`
	Summary        Summary                `json:"summary"`
	SpeedUnits     string                 `json:"speedUnits"`
}

// Summary aggregates a session's results.
type Summary struct {
	Frames         int            `json:"frames"`
	MeanSpeed      float64        `json:"meanSpeed"`
	MeanJumpHeight float64        `json:"meanJumpHeight"`
	MeanCadence    float64        `json:"meanCadence"`
	MeanAgility    float64        `json:"meanAgility"`
	PeakSpeed      float64        `json:"peakSpeed"`
	PeakJumpHeight float64        `json:"peakJumpHeight"`
	Risk           pose.RiskLevel `json:"risk"`
}

// riskOrder breaks ties between equally frequent risk levels, most severe first.
var riskOrder = []pose.RiskLevel{pose.RiskHigh, pose.RiskMedium, pose.RiskLow}

// Summarize computes means and peaks over results and picks the most
// frequent overall risk. An empty slice gives zeros and low risk.
func Summarize(results []pose.AnalysisResult) Summary {
	s := Summary{Frames: len(results), Risk: pose.RiskLow}
	if len(results) == 0 {
		return s
	}

	speed := make([]float64, len(results))
	jump := make([]float64, len(results))
	cadence := make([]float64, len(results))
	agility := make([]float64, len(results))
	counts := make(map[pose.RiskLevel]int, len(riskOrder))
	for i, r := range results {
		speed[i] = r.Metrics.Speed
		jump[i] = r.Metrics.JumpHeight
		cadence[i] = r.Metrics.Cadence
		agility[i] = r.Metrics.AgilityScore
		counts[r.Metrics.InjuryRisk.Overall]++
	}

	s.MeanSpeed = stat.Mean(speed, nil)
	s.MeanJumpHeight = stat.Mean(jump, nil)
	s.MeanCadence = stat.Mean(cadence, nil)
	s.MeanAgility = stat.Mean(agility, nil)
	s.PeakSpeed = floats.Max(speed)
	s.PeakJumpHeight = floats.Max(jump)

	best := 0
	for _, level := range riskOrder {
		if counts[level] > best {
			best = counts[level]
			s.Risk = level
		}
	}
	return s
}

// Timeline returns the per-playback-frame view: the dense timeline when
// present, otherwise the analyzed results.
func (r *Report) Timeline() []*pose.AnalysisResult {
	if r.Dense != nil {
		return r.Dense
	}
	out := make([]*pose.AnalysisResult, len(r.Results))
	for i := range r.Results {
		out[i] = &r.Results[i]
	}
	return out
}

// WithSpeedUnits returns a deep copy of r with every speed expressed in u.
// r itself always holds metres per second.
func (r *Report) WithSpeedUnits(u string) *Report {
	out := *r
	out.SpeedUnits = u

	out.Results = make([]pose.AnalysisResult, len(r.Results))
	for i, res := range r.Results {
		c := res.Clone()
		c.Metrics.Speed = units.ConvertSpeed(c.Metrics.Speed, u)
		out.Results[i] = c
	}
	if r.Dense != nil {
		out.Dense = make([]*pose.AnalysisResult, len(r.Dense))
		for i, res := range r.Dense {
			if res == nil {
				continue
			}
			c := res.Clone()
			c.Metrics.Speed = units.ConvertSpeed(c.Metrics.Speed, u)
			out.Dense[i] = &c
		}
	}
	out.Summary.MeanSpeed = units.ConvertSpeed(r.Summary.MeanSpeed, u)
	out.Summary.PeakSpeed = units.ConvertSpeed(r.Summary.PeakSpeed, u)
	return &out
}
