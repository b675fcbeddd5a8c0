package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/units"
)

// AssetsHost is where rendered pages load the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// missing is the echarts marker for a gap in a series.
const missing = "-"

func frameAxis(timeline []*pose.AnalysisResult) []string {
	x := make([]string, len(timeline))
	for i := range timeline {
		x[i] = strconv.Itoa(i)
	}
	return x
}

// View controls how a dashboard presents a session. Timelines passed with a
// View must already be converted to SpeedUnits.
type View struct {
	SpeedUnits       string
	MinKeypointScore float64
}

func newTimelineChart(title, subtitle string, timeline []*pose.AnalysisResult, speedUnits string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(frameAxis(timeline))

	colors := generateColors(len(Metrics))
	for i, m := range Metrics {
		data := make([]opts.LineData, len(timeline))
		for f, r := range timeline {
			if r == nil {
				data[f] = opts.LineData{Value: missing}
				continue
			}
			data[f] = opts.LineData{Value: m.Value(r.Metrics)}
		}
		unit := m.Unit
		if m.Key == speedKey {
			unit = units.Label(speedUnits)
		}
		line.AddSeries(fmt.Sprintf("%s (%s)", m.Label, unit), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i])}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}

func newRiskChart(title string, timeline []*pose.AnalysisResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "360px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "risk % per area"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
	)
	bar.SetXAxis(frameAxis(timeline))

	colors := generateColors(len(riskAreas))
	for i, area := range riskAreas {
		data := make([]opts.BarData, len(timeline))
		for f, r := range timeline {
			if r == nil {
				data[f] = opts.BarData{Value: missing}
				continue
			}
			data[f] = opts.BarData{Value: area.value(r.Metrics.InjuryRisk.Areas)}
		}
		bar.AddSeries(area.name, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "risk"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i])}),
		)
	}
	return bar
}

// TimelineChart writes an HTML line chart with one series per metric.
// Nil slots render as gaps.
func TimelineChart(w io.Writer, timeline []*pose.AnalysisResult) error {
	line := newTimelineChart("Motion Metrics", fmt.Sprintf("frames=%d", len(timeline)), timeline, units.MPS)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render timeline chart: %w", err)
	}
	return nil
}

// RiskChart writes an HTML stacked bar chart of per-area injury risk.
func RiskChart(w io.Writer, timeline []*pose.AnalysisResult) error {
	bar := newRiskChart("Injury Risk", timeline)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render risk chart: %w", err)
	}
	return nil
}

// Dashboard writes one HTML page holding the metric, risk and pose charts
// for a session.
func Dashboard(w io.Writer, sessionID string, timeline []*pose.AnalysisResult, view View) error {
	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.SetPageTitle(fmt.Sprintf("Session %s", sessionID))
	page.AddCharts(
		newTimelineChart("Motion Metrics", fmt.Sprintf("session=%s frames=%d", sessionID, len(timeline)), timeline, view.SpeedUnits),
		newRiskChart("Injury Risk", timeline),
		newSkeletonChart("Pose", latestWithPoses(timeline), view.MinKeypointScore),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}
