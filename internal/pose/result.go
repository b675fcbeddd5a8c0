package pose

// RiskLevel is the overall injury-risk category.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAreas holds per-area risk percentages.
type RiskAreas struct {
	Knees     float64 `json:"knees"`
	Ankles    float64 `json:"ankles"`
	Shoulders float64 `json:"shoulders"`
	Back      float64 `json:"back"`
}

// Mean returns the average of the four area scores.
func (a RiskAreas) Mean() float64 {
	return (a.Knees + a.Ankles + a.Shoulders + a.Back) / 4
}

// InjuryRisk is the injury assessment for one frame.
type InjuryRisk struct {
	Overall RiskLevel `json:"overall"`
	Areas   RiskAreas `json:"areas"`
}

// Metrics is the per-frame metrics bundle.
type Metrics struct {
	Speed        float64    `json:"speed"`
	JumpHeight   float64    `json:"jumpHeight"`
	Cadence      float64    `json:"cadence"`
	AgilityScore float64    `json:"agilityScore"`
	InjuryRisk   InjuryRisk `json:"injuryRisk"`
}

// AnalysisResult is the output of one AnalyzeFrame call. Timestamp is the
// capture time in Unix milliseconds.
type AnalysisResult struct {
	Poses     []Pose  `json:"poses"`
	Metrics   Metrics `json:"metrics"`
	Frame     int     `json:"frame"`
	Timestamp int64   `json:"timestamp"`
}

// Clone returns a copy of r that shares no memory with it.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.Poses = ClonePoses(r.Poses)
	return out
}
