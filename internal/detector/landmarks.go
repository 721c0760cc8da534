// Package detector provides the hand landmark contract consumed by the gesture layer.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger positions within a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// tipIDs holds the fingertip landmark for each finger, thumb first.
var tipIDs = [NumFingers]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a normalized landmark as reported by the detector (x, y in 0..1).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmark is a single landmark in frame-pixel space.
type Landmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// FingerState reports which fingers are up: thumb, index, middle, ring, pinky.
type FingerState [NumFingers]bool

// String renders the state as five 0/1 digits, e.g. "01100".
func (f FingerState) String() string {
	b := make([]byte, NumFingers)
	for i, up := range f {
		if up {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// HandObservation is one frame's worth of hand data.
// Fingers is only meaningful when Landmarks is non-empty.
type HandObservation struct {
	Landmarks []Landmark  `json:"landmarks"`
	Fingers   FingerState `json:"fingers"`
}

// Present reports whether a hand was detected.
func (o HandObservation) Present() bool {
	return len(o.Landmarks) > 0
}

// Point returns the landmark with the given id.
func (o HandObservation) Point(id int) (Landmark, bool) {
	if id >= 0 && id < len(o.Landmarks) && o.Landmarks[id].ID == id {
		return o.Landmarks[id], true
	}
	for _, l := range o.Landmarks {
		if l.ID == id {
			return l, true
		}
	}
	return Landmark{}, false
}

// Distance returns the Euclidean distance in pixels between two landmarks.
// It returns +Inf if either landmark is missing.
func (o HandObservation) Distance(idA, idB int) float64 {
	a, okA := o.Point(idA)
	b, okB := o.Point(idB)
	if !okA || !okB {
		return math.Inf(1)
	}
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// ThumbRule selects how the thumb's up state is read from the x axis.
type ThumbRule int

const (
	// ThumbTipRight treats the thumb as up when its tip lies right of the IP joint.
	// This matches a right hand in a mirrored frame.
	ThumbTipRight ThumbRule = iota
	// ThumbTipLeft is the reverse, for a left hand in a mirrored frame or a
	// right hand in an unmirrored one.
	ThumbTipLeft
)

// FingersUp derives the finger state from pixel landmarks.
// Fingers other than the thumb are up when the tip sits above its PIP joint.
func FingersUp(landmarks []Landmark, rule ThumbRule) FingerState {
	var f FingerState
	if len(landmarks) < NumLandmarks {
		return f
	}

	obs := HandObservation{Landmarks: landmarks}
	tip, _ := obs.Point(ThumbTip)
	ip, _ := obs.Point(ThumbIP)
	switch rule {
	case ThumbTipLeft:
		f[Thumb] = tip.X < ip.X
	default:
		f[Thumb] = tip.X > ip.X
	}

	for finger := Index; finger < NumFingers; finger++ {
		tip, _ := obs.Point(tipIDs[finger])
		pip, _ := obs.Point(tipIDs[finger] - 2)
		f[finger] = tip.Y < pip.Y
	}
	return f
}

// ToPixels scales normalized landmarks into a width x height frame.
func (h *HandLandmarks) ToPixels(width, height int) []Landmark {
	if h == nil {
		return nil
	}
	out := make([]Landmark, NumLandmarks)
	for i, p := range h.Points {
		out[i] = Landmark{
			ID: i,
			X:  int(p.X * float64(width)),
			Y:  int(p.Y * float64(height)),
		}
	}
	return out
}

// Observe converts the hand into a pixel-space observation.
func (h *HandLandmarks) Observe(width, height int, rule ThumbRule) HandObservation {
	if h == nil {
		return HandObservation{}
	}
	landmarks := h.ToPixels(width, height)
	return HandObservation{
		Landmarks: landmarks,
		Fingers:   FingersUp(landmarks, rule),
	}
}
