package pose

import "math"

const (
	kneeOffsetLimit = 50.0 // px between knee and ankle x
	kneeRiskPerSide = 30.0

	shoulderTiltLimit    = 30.0 // px between shoulder y
	shoulderRiskTilted   = 40.0
	shoulderRiskBaseline = 10.0

	highRiskMean   = 50.0
	mediumRiskMean = 25.0
)

// AssessInjuryRisk scores knee alignment and shoulder balance. Ankles and
// back have no rule and always score 0.
func AssessInjuryRisk(kps KeypointSet) InjuryRisk {
	var areas RiskAreas

	sides := [][2]string{{LeftKnee, LeftAnkle}, {RightKnee, RightAnkle}}
	for _, side := range sides {
		knee, ankle, ok := kps.Pair(side[0], side[1])
		if ok && math.Abs(knee.X-ankle.X) > kneeOffsetLimit {
			areas.Knees += kneeRiskPerSide
		}
	}

	if l, r, ok := kps.Pair(LeftShoulder, RightShoulder); ok {
		areas.Shoulders = shoulderRiskBaseline
		if math.Abs(l.Y-r.Y) > shoulderTiltLimit {
			areas.Shoulders = shoulderRiskTilted
		}
	}

	return InjuryRisk{Overall: OverallRisk(areas), Areas: areas}
}

// OverallRisk maps the mean area score to a category.
func OverallRisk(areas RiskAreas) RiskLevel {
	switch mean := areas.Mean(); {
	case mean > highRiskMean:
		return RiskHigh
	case mean > mediumRiskMean:
		return RiskMedium
	default:
		return RiskLow
	}
}
