package report

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/motion.report/internal/fsutil"
	"github.com/banshee-data/motion.report/internal/pose"
)

// WriteMetricPlots saves one PNG line plot per metric into dir on fsys,
// creating it if needed, and returns the written paths. Nil slots are
// skipped; metrics with no samples produce no file.
func WriteMetricPlots(fsys fsutil.FileSystem, dir string, timeline []*pose.AnalysisResult) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	colors := generateColors(len(Metrics))
	var paths []string
	for i, m := range Metrics {
		pts := make(plotter.XYs, 0, len(timeline))
		for f, r := range timeline {
			if r == nil {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(f), Y: m.Value(r.Metrics)})
		}
		if len(pts) == 0 {
			continue
		}

		p := plot.New()
		p.Title.Text = m.Label
		p.X.Label.Text = "Frame"
		p.Y.Label.Text = fmt.Sprintf("%s (%s)", m.Label, m.Unit)

		line, err := plotter.NewLine(pts)
		if err != nil {
			return paths, fmt.Errorf("%s line: %w", m.Key, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(m.Label, line)
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		file := filepath.Join(dir, fmt.Sprintf("metric_%s.png", m.Key))
		if err := savePNG(fsys, p, file); err != nil {
			return paths, fmt.Errorf("save %s plot: %w", m.Key, err)
		}
		paths = append(paths, file)
	}
	return paths, nil
}

func savePNG(fsys fsutil.FileSystem, p *plot.Plot, file string) error {
	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return err
	}
	f, err := fsys.Create(file)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
