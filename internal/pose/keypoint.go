// Package pose derives motion metrics (speed, jump height, cadence, agility)
// and a heuristic injury-risk assessment from per-frame body keypoints.
//
// An Analyzer owns the rolling state needed for differential metrics: the
// previous frame's poses, the last HistoryCapacity results and the last
// VelocityWindow frame-to-frame centroid displacements. Analyzers are not
// safe for concurrent use; create one per analysis session.
package pose

// Keypoint names, COCO-17 order.
const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// KeypointNames lists every landmark name the detectors may emit.
var KeypointNames = []string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
	LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// Skeleton lists the keypoint pairs joined when a pose is drawn.
var Skeleton = [][2]string{
	{Nose, LeftEye}, {Nose, RightEye}, {LeftEye, LeftEar}, {RightEye, RightEar},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow}, {RightShoulder, RightElbow},
	{LeftElbow, LeftWrist}, {RightElbow, RightWrist},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip}, {LeftHip, RightHip},
	{LeftHip, LeftKnee}, {RightHip, RightKnee},
	{LeftKnee, LeftAnkle}, {RightKnee, RightAnkle},
}

// Keypoint is a named landmark in pixel coordinates. Score is nil when the
// detector did not report a confidence.
type Keypoint struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Score *float64 `json:"score,omitempty"`
	Name  string   `json:"name,omitempty"`
}

// Pose is one detected subject.
type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     *float64   `json:"score,omitempty"`
}

// Score returns a pointer to s, for building keypoints in code.
func Score(s float64) *float64 { return &s }

// KeypointSet indexes a pose's keypoints by name. When a name occurs more
// than once the first occurrence wins; unnamed keypoints are ignored.
type KeypointSet map[string]Keypoint

// NewKeypointSet builds a KeypointSet from kps.
func NewKeypointSet(kps []Keypoint) KeypointSet {
	set := make(KeypointSet, len(kps))
	for _, kp := range kps {
		if kp.Name == "" {
			continue
		}
		if _, dup := set[kp.Name]; dup {
			continue
		}
		set[kp.Name] = kp
	}
	return set
}

// Get returns the named keypoint and whether it is present.
func (s KeypointSet) Get(name string) (Keypoint, bool) {
	kp, ok := s[name]
	return kp, ok
}

// Has reports whether every named keypoint is present, regardless of score.
func (s KeypointSet) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := s[n]; !ok {
			return false
		}
	}
	return true
}

// Confident reports whether the named keypoint is present with a score
// strictly above minScore. Unscored keypoints never pass.
func (s KeypointSet) Confident(name string, minScore float64) bool {
	kp, ok := s[name]
	if !ok || kp.Score == nil {
		return false
	}
	return *kp.Score > minScore
}

// Pair returns both keypoints of a left/right pair when both are present.
func (s KeypointSet) Pair(left, right string) (Keypoint, Keypoint, bool) {
	l, okL := s[left]
	r, okR := s[right]
	if !okL || !okR {
		return Keypoint{}, Keypoint{}, false
	}
	return l, r, true
}

// Clone returns a deep copy of p.
func (p Pose) Clone() Pose {
	out := Pose{Keypoints: make([]Keypoint, len(p.Keypoints))}
	for i, kp := range p.Keypoints {
		out.Keypoints[i] = kp
		if kp.Score != nil {
			out.Keypoints[i].Score = Score(*kp.Score)
		}
	}
	if p.Score != nil {
		out.Score = Score(*p.Score)
	}
	return out
}

// ClonePoses deep-copies a pose list, preserving nil.
func ClonePoses(poses []Pose) []Pose {
	if poses == nil {
		return nil
	}
	out := make([]Pose, len(poses))
	for i, p := range poses {
		out[i] = p.Clone()
	}
	return out
}
