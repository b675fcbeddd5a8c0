// Package report renders session timelines as HTML charts (go-echarts) and
// PNG plots (gonum/plot).
package report

import "github.com/banshee-data/motion.report/internal/pose"

// Metric selects one numeric series from a result.
type Metric struct {
	Key   string
	Label string
	Unit  string
	Value func(pose.Metrics) float64
}

// speedKey identifies the series whose unit follows the report's speed units.
const speedKey = "speed"

// Metrics lists the plotted series in display order. Speed is in m/s unless
// a View says otherwise.
var Metrics = []Metric{
	{Key: speedKey, Label: "Speed", Unit: "m/s", Value: func(m pose.Metrics) float64 { return m.Speed }},
	{Key: "jump_height", Label: "Jump Height", Unit: "cm", Value: func(m pose.Metrics) float64 { return m.JumpHeight }},
	{Key: "cadence", Label: "Cadence", Unit: "steps/min", Value: func(m pose.Metrics) float64 { return m.Cadence }},
	{Key: "agility", Label: "Agility", Unit: "score", Value: func(m pose.Metrics) float64 { return m.AgilityScore }},
}

// riskAreas lists the stacked series of the risk chart.
var riskAreas = []struct {
	name  string
	value func(pose.RiskAreas) float64
}{
	{"knees", func(a pose.RiskAreas) float64 { return a.Knees }},
	{"ankles", func(a pose.RiskAreas) float64 { return a.Ankles }},
	{"shoulders", func(a pose.RiskAreas) float64 { return a.Shoulders }},
	{"back", func(a pose.RiskAreas) float64 { return a.Back }},
}
