package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/motion.report/internal/units"
)

// DefaultConfigPath is where the CLI looks for analysis settings when no
// path is given.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig holds session and service settings. Omitted fields fall
// back to defaults through the Get* accessors, so partial files are safe.
// The metric constants themselves are not configurable.
type AnalysisConfig struct {
	// Sampling
	PlaybackFPS    *float64 `json:"playback_fps,omitempty"`
	AnalysisFPSCap *float64 `json:"analysis_fps_cap,omitempty"`
	WebcamDuration *string  `json:"webcam_duration,omitempty"` // duration string like "10s"

	// Rendering
	MinKeypointScore *float64 `json:"min_keypoint_score,omitempty"`
	UIUpdateEvery    *int     `json:"ui_update_every,omitempty"`
	SpeedUnits       *string  `json:"speed_units,omitempty"`

	// Service
	Listen      *string `json:"listen,omitempty"`
	MaxSessions *int    `json:"max_sessions,omitempty"`
	MaxDuration *string `json:"max_duration,omitempty"` // longest file session the API accepts
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultAnalysisConfig returns a config with every field set to its default.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		PlaybackFPS:      ptrFloat64(10),
		AnalysisFPSCap:   ptrFloat64(15),
		WebcamDuration:   ptrString("10s"),
		MinKeypointScore: ptrFloat64(0.3),
		UIUpdateEvery:    ptrInt(5),
		SpeedUnits:       ptrString(units.MPS),
		Listen:           ptrString(":8080"),
		MaxSessions:      ptrInt(16),
		MaxDuration:      ptrString("5m"),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file. The file must
// have a .json extension and be at most 1MB.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalysisConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set fields hold usable values.
func (c *AnalysisConfig) Validate() error {
	if c.PlaybackFPS != nil && *c.PlaybackFPS <= 0 {
		return fmt.Errorf("playback_fps must be positive, got %f", *c.PlaybackFPS)
	}
	if c.AnalysisFPSCap != nil && *c.AnalysisFPSCap <= 0 {
		return fmt.Errorf("analysis_fps_cap must be positive, got %f", *c.AnalysisFPSCap)
	}
	if c.WebcamDuration != nil && *c.WebcamDuration != "" {
		d, err := time.ParseDuration(*c.WebcamDuration)
		if err != nil {
			return fmt.Errorf("invalid webcam_duration '%s': %w", *c.WebcamDuration, err)
		}
		if d <= 0 {
			return fmt.Errorf("webcam_duration must be positive, got %s", d)
		}
	}
	if c.MinKeypointScore != nil {
		if *c.MinKeypointScore < 0 || *c.MinKeypointScore > 1 {
			return fmt.Errorf("min_keypoint_score must be between 0 and 1, got %f", *c.MinKeypointScore)
		}
	}
	if c.UIUpdateEvery != nil && *c.UIUpdateEvery < 1 {
		return fmt.Errorf("ui_update_every must be at least 1, got %d", *c.UIUpdateEvery)
	}
	if c.SpeedUnits != nil && !units.IsValid(*c.SpeedUnits) {
		return fmt.Errorf("speed_units must be one of %s, got %q", units.GetValidUnitsString(), *c.SpeedUnits)
	}
	if c.MaxSessions != nil && *c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1, got %d", *c.MaxSessions)
	}
	if c.MaxDuration != nil && *c.MaxDuration != "" {
		d, err := time.ParseDuration(*c.MaxDuration)
		if err != nil {
			return fmt.Errorf("invalid max_duration '%s': %w", *c.MaxDuration, err)
		}
		if d <= 0 {
			return fmt.Errorf("max_duration must be positive, got %s", d)
		}
	}
	return nil
}

// GetPlaybackFPS returns the playback frame rate results are mapped onto.
func (c *AnalysisConfig) GetPlaybackFPS() float64 {
	if c.PlaybackFPS == nil {
		return 10
	}
	return *c.PlaybackFPS
}

// GetAnalysisFPSCap returns the maximum rate at which video frames are analyzed.
func (c *AnalysisConfig) GetAnalysisFPSCap() float64 {
	if c.AnalysisFPSCap == nil {
		return 15
	}
	return *c.AnalysisFPSCap
}

// GetAnalysisFPS returns the effective analysis rate, min(playback, cap).
func (c *AnalysisConfig) GetAnalysisFPS() float64 {
	if p, cp := c.GetPlaybackFPS(), c.GetAnalysisFPSCap(); cp < p {
		return cp
	}
	return c.GetPlaybackFPS()
}

// GetWebcamDuration parses and returns the live capture length.
func (c *AnalysisConfig) GetWebcamDuration() time.Duration {
	if c.WebcamDuration == nil || *c.WebcamDuration == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(*c.WebcamDuration)
	if err != nil {
		return 10 * time.Second // default on parse error
	}
	return d
}

// GetMinKeypointScore returns the confidence a keypoint needs to be drawn.
func (c *AnalysisConfig) GetMinKeypointScore() float64 {
	if c.MinKeypointScore == nil {
		return 0.3
	}
	return *c.MinKeypointScore
}

// GetUIUpdateEvery returns how many analyzed frames pass between progress updates.
func (c *AnalysisConfig) GetUIUpdateEvery() int {
	if c.UIUpdateEvery == nil {
		return 5
	}
	return *c.UIUpdateEvery
}

// GetSpeedUnits returns the units speeds are reported in.
func (c *AnalysisConfig) GetSpeedUnits() string {
	if c.SpeedUnits == nil {
		return units.MPS
	}
	return *c.SpeedUnits
}

// GetListen returns the HTTP listen address.
func (c *AnalysisConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetMaxSessions returns how many session reports the server keeps in memory.
func (c *AnalysisConfig) GetMaxSessions() int {
	if c.MaxSessions == nil {
		return 16
	}
	return *c.MaxSessions
}

// GetMaxDuration returns the longest file-mode session the API will run.
func (c *AnalysisConfig) GetMaxDuration() time.Duration {
	const def = 5 * time.Minute
	if c.MaxDuration == nil || *c.MaxDuration == "" {
		return def
	}
	d, err := time.ParseDuration(*c.MaxDuration)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
