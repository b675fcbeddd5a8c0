package detect

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/banshee-data/motion.report/internal/pose"
)

// maxRecordSize bounds a single JSON line in a replay file.
const maxRecordSize = 4 * 1024 * 1024

// ErrEmptyReplay is returned by Init when a replay holds no records.
var ErrEmptyReplay = errors.New("replay contains no frame records")

// Record is one line of a replay file: the poses seen at an analysis frame,
// or a detection error to reproduce.
type Record struct {
	Frame int         `json:"frame"`
	Poses []pose.Pose `json:"poses"`
	Error string      `json:"error,omitempty"`
}

// Replay returns recorded poses keyed by Frame.Seq. Frames without a record
// yield no poses.
type Replay struct {
	mu      sync.RWMutex
	records map[int]Record
}

// NewReplay builds a replay from records. A later record for the same frame
// replaces an earlier one.
func NewReplay(records []Record) *Replay {
	r := &Replay{records: make(map[int]Record, len(records))}
	for _, rec := range records {
		r.records[rec.Frame] = rec
	}
	return r
}

// LoadReplay parses JSON-lines records from rd. Blank lines are skipped.
func LoadReplay(rd io.Reader) (*Replay, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("parse replay line %d: %w", line, err)
		}
		if rec.Frame < 0 {
			return nil, fmt.Errorf("parse replay line %d: negative frame %d", line, rec.Frame)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return NewReplay(records), nil
}

// ReadReplayFile loads a replay from a JSON-lines file.
func ReadReplayFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return LoadReplay(f)
}

// Init implements pose.Initializer.
func (r *Replay) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Len() == 0 {
		return ErrEmptyReplay
	}
	return nil
}

// Detect implements pose.Detector.
func (r *Replay) Detect(ctx context.Context, frame pose.Frame) ([]pose.Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	rec, ok := r.records[frame.Seq]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if rec.Error != "" {
		return nil, errors.New(rec.Error)
	}
	return pose.ClonePoses(rec.Poses), nil
}

// Len returns the number of distinct frames recorded.
func (r *Replay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Frames returns the recorded frame numbers in ascending order.
func (r *Replay) Frames() []int {
	r.mu.RLock()
	frames := make([]int, 0, len(r.records))
	for f := range r.records {
		frames = append(frames, f)
	}
	r.mu.RUnlock()
	sort.Ints(frames)
	return frames
}

// WriteReplay encodes records as JSON lines.
func WriteReplay(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write replay frame %d: %w", rec.Frame, err)
		}
	}
	return nil
}
