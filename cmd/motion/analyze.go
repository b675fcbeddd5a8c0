package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/detect"
	"github.com/banshee-data/motion.report/internal/fsutil"
	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/report"
	"github.com/banshee-data/motion.report/internal/session"
	"github.com/banshee-data/motion.report/internal/units"
)

type analysisOptions struct {
	fs        fsutil.FileSystem // OSFileSystem when nil
	keypoints string
	duration  time.Duration
	live      bool
	out       string
	html      string
	plots     string
	units     string
}

// defaultSyntheticDuration is used for synthetic file-mode runs without -duration.
const defaultSyntheticDuration = 10 * time.Second

// runAnalysis runs one session and writes the requested outputs. The JSON
// report goes to stdout unless opts.out is set.
func runAnalysis(ctx context.Context, cfg *config.AnalysisConfig, opts analysisOptions, stdout io.Writer) error {
	fsys := opts.fs
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	speedUnits := cfg.GetSpeedUnits()
	if opts.units != "" {
		u, err := units.Parse(opts.units)
		if err != nil {
			return err
		}
		speedUnits = u
	}

	req := session.Request{Mode: session.ModeFile, Duration: opts.duration}
	if opts.live {
		req.Mode = session.ModeLive
	}

	var detector pose.Detector
	if opts.keypoints == "" {
		detector = detect.NewSynthetic(nil)
		if req.Duration == 0 {
			req.Duration = defaultSyntheticDuration
		}
	} else {
		replay, err := detect.ReadReplayFile(opts.keypoints)
		if err != nil {
			return err
		}
		if req.Duration == 0 {
			req.Duration = replayDuration(replay, cfg.GetAnalysisFPS())
		}
		detector = replay
	}

	runner := session.NewRunner(cfg, pose.NewAnalyzer(detector), session.WithProgress(func(p session.Progress) {
		log.Printf("[session %s] %d/%d frames analyzed", p.SessionID, p.Analyzed, p.Total)
	}))

	rep, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	converted := rep.WithSpeedUnits(speedUnits)
	if err := writeReport(fsys, converted, opts.out, stdout); err != nil {
		return err
	}
	if opts.html != "" {
		view := report.View{SpeedUnits: speedUnits, MinKeypointScore: cfg.GetMinKeypointScore()}
		if err := writeDashboard(fsys, converted, view, opts.html); err != nil {
			return err
		}
	}
	if opts.plots != "" {
		paths, err := report.WriteMetricPlots(fsys, opts.plots, rep.Timeline())
		if err != nil {
			return err
		}
		log.Printf("wrote %d plots to %s", len(paths), opts.plots)
	}
	return nil
}

// replayDuration covers every recorded analysis frame.
func replayDuration(r *detect.Replay, analysisFPS float64) time.Duration {
	frames := r.Frames()
	if len(frames) == 0 {
		return 0
	}
	last := frames[len(frames)-1]
	return time.Duration(math.Round(float64(last+1) / analysisFPS * float64(time.Second)))
}

func writeReport(fsys fsutil.FileSystem, rep *session.Report, path string, stdout io.Writer) error {
	w := stdout
	if path != "" {
		f, err := fsys.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeDashboard(fsys fsutil.FileSystem, rep *session.Report, view report.View, path string) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()
	return report.Dashboard(f, rep.ID, rep.Timeline(), view)
}
