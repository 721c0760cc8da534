package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Label identifies a classified gesture.
type Label int

const (
	LabelNone Label = iota
	LabelPoint
	LabelPinchClick
	LabelPinchVolume
	LabelSwipeUp
	LabelSwipeDown
	LabelSwipeRight
	LabelSwipeLeft
)

var labelNames = map[Label]string{
	LabelNone:        "NONE",
	LabelPoint:       "POINT",
	LabelPinchClick:  "PINCH_CLICK",
	LabelPinchVolume: "PINCH_VOLUME",
	LabelSwipeUp:     "SWIPE_UP",
	LabelSwipeDown:   "SWIPE_DOWN",
	LabelSwipeRight:  "SWIPE_RIGHT",
	LabelSwipeLeft:   "SWIPE_LEFT",
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Gesture is the classifier's output for one frame. Distance is set only
// for labels whose rule measures a pinch.
type Gesture struct {
	Label    Label
	Distance float64
}

// Finger is one position in a pattern.
type Finger int

const (
	Any Finger = iota
	Up
	Down
)

// Pattern matches a FingerState position by position.
type Pattern [detector.NumFingers]Finger

// ParsePattern reads a five character pattern: '1' up, '0' down, 'x' any.
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	if len(s) != detector.NumFingers {
		return p, fmt.Errorf("pattern %q: want %d characters", s, detector.NumFingers)
	}
	for i, c := range s {
		switch c {
		case '1':
			p[i] = Up
		case '0':
			p[i] = Down
		case 'x', 'X', '*':
			p[i] = Any
		default:
			return p, fmt.Errorf("pattern %q: invalid character %q", s, c)
		}
	}
	return p, nil
}

// MustPattern is ParsePattern that panics on error, for static tables.
func MustPattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether the finger state satisfies the pattern.
func (p Pattern) Matches(f detector.FingerState) bool {
	for i, want := range p {
		switch want {
		case Up:
			if !f[i] {
				return false
			}
		case Down:
			if f[i] {
				return false
			}
		}
	}
	return true
}

// Specificity counts the positions that are not Any.
func (p Pattern) Specificity() int {
	n := 0
	for _, want := range p {
		if want != Any {
			n++
		}
	}
	return n
}

// Pair names two landmarks whose distance a rule measures.
type Pair struct {
	A, B int
}

// Rule maps a finger pattern to a label.
type Rule struct {
	Pattern Pattern
	Label   Label
	Pinch   *Pair
}

// Table is an ordered set of rules for one application.
type Table []Rule

// Classify returns the gesture for the observation. The most specific
// matching rule wins, so exact patterns beat wildcard ones; ties go to the
// earlier rule. An absent hand or no match yields LabelNone.
func (t Table) Classify(obs detector.HandObservation) Gesture {
	if !obs.Present() {
		return Gesture{Label: LabelNone}
	}

	best := -1
	for i, r := range t {
		if !r.Pattern.Matches(obs.Fingers) {
			continue
		}
		if best < 0 || r.Pattern.Specificity() > t[best].Pattern.Specificity() {
			best = i
		}
	}
	if best < 0 {
		return Gesture{Label: LabelNone}
	}

	g := Gesture{Label: t[best].Label}
	if pinch := t[best].Pinch; pinch != nil {
		g.Distance = PinchDistance(obs.Landmarks, pinch.A, pinch.B)
	}
	return g
}

// PinchDistance returns the pixel distance between two landmark ids.
// It returns +Inf if either id is missing.
func PinchDistance(landmarks []detector.Landmark, idA, idB int) float64 {
	return detector.HandObservation{Landmarks: landmarks}.Distance(idA, idB)
}
