package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/motion.report/internal/pose"
)

// latestWithPoses returns the last result in timeline that detected a pose.
func latestWithPoses(timeline []*pose.AnalysisResult) *pose.AnalysisResult {
	for i := len(timeline) - 1; i >= 0; i-- {
		if r := timeline[i]; r != nil && len(r.Poses) > 0 {
			return r
		}
	}
	return nil
}

// newSkeletonChart draws the poses of res in image coordinates. Keypoints
// scoring at or below minScore are left out, and so is every bone touching
// one of them.
func newSkeletonChart(title string, res *pose.AnalysisResult, minScore float64) *charts.Scatter {
	subtitle := "no pose detected"
	if res != nil {
		subtitle = fmt.Sprintf("frame=%d min score=%.2f", res.Frame, minScore)
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y (px)", Inverse: opts.Bool(true)}),
	)
	if res == nil {
		return sc
	}

	bones := charts.NewLine()
	colors := generateColors(len(res.Poses))
	for i, p := range res.Poses {
		kps := pose.NewKeypointSet(p.Keypoints)
		name := fmt.Sprintf("pose %d", i+1)
		color := hexColor(colors[i])

		var points []opts.ScatterData
		for _, n := range pose.KeypointNames {
			if !kps.Confident(n, minScore) {
				continue
			}
			kp, _ := kps.Get(n)
			points = append(points, opts.ScatterData{Name: n, Value: []float64{kp.X, kp.Y}, SymbolSize: 8})
		}
		sc.AddSeries(name, points, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))

		for _, b := range pose.Skeleton {
			if !kps.Confident(b[0], minScore) || !kps.Confident(b[1], minScore) {
				continue
			}
			from, _ := kps.Get(b[0])
			to, _ := kps.Get(b[1])
			bones.AddSeries(name, []opts.LineData{
				{Value: []float64{from.X, from.Y}},
				{Value: []float64{to.X, to.Y}},
			},
				charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			)
		}
	}
	sc.Overlap(bones)
	return sc
}

// SkeletonChart writes an HTML chart of the latest detected poses in
// timeline, drawing only keypoints scoring above minScore.
func SkeletonChart(w io.Writer, timeline []*pose.AnalysisResult, minScore float64) error {
	sc := newSkeletonChart("Pose", latestWithPoses(timeline), minScore)
	if err := sc.Render(w); err != nil {
		return fmt.Errorf("render skeleton chart: %w", err)
	}
	return nil
}
