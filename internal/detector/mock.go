package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns queued results in order, then repeats the configured hands.
type MockDetector struct {
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect once the queue is drained.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// Enqueue appends one Detect result per argument. A nil entry means no hand.
func (m *MockDetector) Enqueue(results ...[]HandLandmarks) {
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the next queued result, the configured hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseLandmarks returns a synthetic right hand, in normalized coordinates,
// whose fingers are extended or curled according to fingers.
func PoseLandmarks(fingers FingerState) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Thumb: tip lies right of the IP joint when extended
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	hand.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70}
	hand.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.66}
	if fingers[Thumb] {
		hand.Points[ThumbTip] = Point3D{X: 0.68, Y: 0.63}
	} else {
		hand.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.66}
	}

	for finger := Index; finger < NumFingers; finger++ {
		x := 0.56 - 0.05*float64(finger-Index)
		mcp := tipIDs[finger] - 3
		hand.Points[mcp] = Point3D{X: x, Y: 0.68}
		if fingers[finger] {
			hand.Points[mcp+1] = Point3D{X: x, Y: 0.55}
			hand.Points[mcp+2] = Point3D{X: x, Y: 0.47}
			hand.Points[mcp+3] = Point3D{X: x, Y: 0.40}
		} else {
			hand.Points[mcp+1] = Point3D{X: x, Y: 0.62}
			hand.Points[mcp+2] = Point3D{X: x - 0.01, Y: 0.66}
			hand.Points[mcp+3] = Point3D{X: x - 0.02, Y: 0.68}
		}
	}

	return hand
}

// PointLandmarks returns a hand with only the index finger extended.
func PointLandmarks() HandLandmarks {
	return PoseLandmarks(FingerState{false, true, false, false, false})
}

// OpenPalmLandmarks returns a hand with all fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(FingerState{true, true, true, true, true})
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(FingerState{})
}
