package mode

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// frameAt returns the timestamp of frame i at 30fps.
func frameAt(i int) time.Time {
	return t0.Add(time.Duration(i) * time.Second / 30)
}

// hand builds a full observation with every landmark at the origin except
// the ones given in points.
func hand(t *testing.T, fingers string, points map[int][2]int) detector.HandObservation {
	t.Helper()
	require.Len(t, fingers, detector.NumFingers)

	landmarks := make([]detector.Landmark, detector.NumLandmarks)
	for id := range landmarks {
		landmarks[id] = detector.Landmark{ID: id}
	}
	for id, p := range points {
		landmarks[id].X = p[0]
		landmarks[id].Y = p[1]
	}

	var state detector.FingerState
	for i, c := range fingers {
		state[i] = c == '1'
	}
	return detector.HandObservation{Landmarks: landmarks, Fingers: state}
}
