// Command motion analyzes recorded or synthetic pose keypoints and reports
// speed, jump height, cadence, agility and injury risk, either as a one-shot
// run or as an HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/banshee-data/motion.report/internal/api"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/version"
)

var (
	envFile    = flag.String("env", ".env", "Environment file to load before reading MOTION_* variables")
	configPath = flag.String("config", "", "Analysis config JSON (default $MOTION_CONFIG or "+config.DefaultConfigPath+" when present)")
	keypoints  = flag.String("keypoints", "", "Recorded keypoints (JSON lines); synthetic motion when empty")
	duration   = flag.Duration("duration", 0, "Video duration for file mode (default: derived from the recording)")
	live       = flag.Bool("live", false, "Analyze as a fixed-length live capture")
	outPath    = flag.String("out", "", "Write the JSON report here instead of stdout")
	htmlPath   = flag.String("html", "", "Write an HTML chart dashboard here")
	plotsDir   = flag.String("plots", "", "Write PNG metric plots into this directory")
	speedUnits = flag.String("units", "", "Speed units for the report (mps, mph, kmph, kph)")
	listen     = flag.String("listen", "", "Serve the HTTP API on this address instead of running once (default $MOTION_LISTEN)")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		version.Print(os.Stdout)
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load %s: %v", *envFile, err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := *listen
	if addr == "" {
		addr = os.Getenv("MOTION_LISTEN")
	}
	if addr != "" {
		serve(ctx, cfg, addr)
		return
	}

	opts := analysisOptions{
		keypoints: *keypoints,
		duration:  *duration,
		live:      *live,
		out:       *outPath,
		html:      *htmlPath,
		plots:     *plotsDir,
		units:     *speedUnits,
	}
	if err := runAnalysis(ctx, cfg, opts, os.Stdout); err != nil {
		log.Fatalf("analysis failed: %v", err)
	}
}

// loadConfig resolves the config path from the flag, then MOTION_CONFIG,
// then the default path if it exists. With nothing found it returns defaults.
func loadConfig(path string) (*config.AnalysisConfig, error) {
	if path == "" {
		path = os.Getenv("MOTION_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			return config.DefaultAnalysisConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	log.Printf("loading analysis config from %s", path)
	return config.LoadAnalysisConfig(path)
}

func serve(ctx context.Context, cfg *config.AnalysisConfig, addr string) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		srv := api.NewServer(cfg)
		mux := srv.ServeMux()
		srv.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    addr,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("HTTP server listening on %s", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
}
