package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/motion.report/internal/units"
)

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := &AnalysisConfig{}

	if got := cfg.GetPlaybackFPS(); got != 10 {
		t.Errorf("GetPlaybackFPS() = %v, want 10", got)
	}
	if got := cfg.GetAnalysisFPSCap(); got != 15 {
		t.Errorf("GetAnalysisFPSCap() = %v, want 15", got)
	}
	if got := cfg.GetAnalysisFPS(); got != 10 {
		t.Errorf("GetAnalysisFPS() = %v, want 10", got)
	}
	if got := cfg.GetWebcamDuration(); got != 10*time.Second {
		t.Errorf("GetWebcamDuration() = %v, want 10s", got)
	}
	if got := cfg.GetMinKeypointScore(); got != 0.3 {
		t.Errorf("GetMinKeypointScore() = %v, want 0.3", got)
	}
	if got := cfg.GetUIUpdateEvery(); got != 5 {
		t.Errorf("GetUIUpdateEvery() = %v, want 5", got)
	}
	if got := cfg.GetSpeedUnits(); got != units.MPS {
		t.Errorf("GetSpeedUnits() = %v, want %v", got, units.MPS)
	}
	if got := cfg.GetListen(); got != ":8080" {
		t.Errorf("GetListen() = %v, want :8080", got)
	}
	if got := cfg.GetMaxSessions(); got != 16 {
		t.Errorf("GetMaxSessions() = %v, want 16", got)
	}
	if got := cfg.GetMaxDuration(); got != 5*time.Minute {
		t.Errorf("GetMaxDuration() = %v, want 5m", got)
	}
}

func TestDefaultAnalysisConfigMatchesAccessorDefaults(t *testing.T) {
	def := DefaultAnalysisConfig()
	empty := &AnalysisConfig{}

	if err := def.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if def.GetPlaybackFPS() != empty.GetPlaybackFPS() ||
		def.GetAnalysisFPSCap() != empty.GetAnalysisFPSCap() ||
		def.GetWebcamDuration() != empty.GetWebcamDuration() ||
		def.GetMinKeypointScore() != empty.GetMinKeypointScore() ||
		def.GetUIUpdateEvery() != empty.GetUIUpdateEvery() ||
		def.GetSpeedUnits() != empty.GetSpeedUnits() ||
		def.GetListen() != empty.GetListen() ||
		def.GetMaxSessions() != empty.GetMaxSessions() ||
		def.GetMaxDuration() != empty.GetMaxDuration() {
		t.Errorf("DefaultAnalysisConfig() disagrees with accessor defaults: %+v", def)
	}
}

func TestGetAnalysisFPSCapped(t *testing.T) {
	cfg := &AnalysisConfig{PlaybackFPS: ptrFloat64(30), AnalysisFPSCap: ptrFloat64(15)}
	if got := cfg.GetAnalysisFPS(); got != 15 {
		t.Errorf("GetAnalysisFPS() = %v, want 15", got)
	}
}

func TestGetWebcamDurationInvalidFallsBack(t *testing.T) {
	cfg := &AnalysisConfig{WebcamDuration: ptrString("soon")}
	if got := cfg.GetWebcamDuration(); got != 10*time.Second {
		t.Errorf("GetWebcamDuration() = %v, want 10s", got)
	}
}

func TestLoadAnalysisConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "analysis.json")
	content := `{"playback_fps": 25, "analysis_fps_cap": 12.5, "webcam_duration": "4s", "speed_units": "kph"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(path)
	if err != nil {
		t.Fatalf("LoadAnalysisConfig failed: %v", err)
	}
	if got := cfg.GetPlaybackFPS(); got != 25 {
		t.Errorf("GetPlaybackFPS() = %v, want 25", got)
	}
	if got := cfg.GetAnalysisFPS(); got != 12.5 {
		t.Errorf("GetAnalysisFPS() = %v, want 12.5", got)
	}
	if got := cfg.GetWebcamDuration(); got != 4*time.Second {
		t.Errorf("GetWebcamDuration() = %v, want 4s", got)
	}
	if got := cfg.GetSpeedUnits(); got != units.KPH {
		t.Errorf("GetSpeedUnits() = %v, want kph", got)
	}
	// Unset fields keep their defaults.
	if got := cfg.GetUIUpdateEvery(); got != 5 {
		t.Errorf("GetUIUpdateEvery() = %v, want 5", got)
	}
}

func TestLoadAnalysisConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("analysis.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "absent.json"), "failed to stat"},
		{"bad json", write("bad.json", "{not json"), "failed to parse"},
		{"negative fps", write("neg.json", `{"playback_fps": -1}`), "playback_fps"},
		{"zero cap", write("cap.json", `{"analysis_fps_cap": 0}`), "analysis_fps_cap"},
		{"bad duration", write("dur.json", `{"webcam_duration": "ten"}`), "webcam_duration"},
		{"score out of range", write("score.json", `{"min_keypoint_score": 1.5}`), "min_keypoint_score"},
		{"zero ui cadence", write("ui.json", `{"ui_update_every": 0}`), "ui_update_every"},
		{"unknown units", write("units.json", `{"speed_units": "knots"}`), "speed_units"},
		{"zero sessions", write("sessions.json", `{"max_sessions": 0}`), "max_sessions"},
		{"bad max duration", write("maxdur.json", `{"max_duration": "forever"}`), "max_duration"},
		{"negative max duration", write("negmax.json", `{"max_duration": "-1m"}`), "max_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalysisConfig(tt.path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadAnalysisConfigTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.json")
	data := make([]byte, 1024*1024+1)
	for i := range data {
		data[i] = ' '
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadAnalysisConfig(path); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}
