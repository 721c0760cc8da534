package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	testActive = Inset(640, 480, 50)
	testScreen = NewRect(0, 0, 1920, 1080)
)

func TestInterp(t *testing.T) {
	tests := []struct {
		name        string
		v, x0, x1   float64
		y0, y1      float64
		want        float64
		wantClamped float64
	}{
		{name: "lower bound", v: 50, x0: 50, x1: 590, y0: 0, y1: 1920, want: 0, wantClamped: 0},
		{name: "upper bound", v: 590, x0: 50, x1: 590, y0: 0, y1: 1920, want: 1920, wantClamped: 1920},
		{name: "below range", v: 0, x0: 50, x1: 590, y0: 0, y1: 1920, want: -1920.0 * 50 / 540, wantClamped: 0},
		{name: "above range", v: 640, x0: 50, x1: 590, y0: 0, y1: 1920, want: 1920 + 1920.0*50/540, wantClamped: 1920},
		{name: "inverted output", v: 15, x0: 15, x1: 220, y0: 100, y1: 0, want: 100, wantClamped: 100},
		{name: "degenerate input", v: 3, x0: 5, x1: 5, y0: 7, y1: 9, want: 7, wantClamped: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Interp(tt.v, tt.x0, tt.x1, tt.y0, tt.y1), 1e-9)
			assert.InDelta(t, tt.wantClamped, InterpClamped(tt.v, tt.x0, tt.x1, tt.y0, tt.y1), 1e-9)
		})
	}
}

func TestRect(t *testing.T) {
	r := Inset(640, 480, 50)
	assert.Equal(t, NewRect(50, 50, 590, 430), r)
	assert.Equal(t, 540.0, r.Dx())
	assert.Equal(t, 380.0, r.Dy())
	assert.False(t, r.Empty())
	assert.True(t, Inset(640, 480, 240).Empty())
}

func TestMapAndSmooth_CenterMapsToCenter(t *testing.T) {
	got := MapAndSmooth(Point{X: 320, Y: 240}, testActive, testScreen, Point{X: 7, Y: 9}, 1)
	assert.Equal(t, Point{X: 960, Y: 540}, got)
}

func TestMapAndSmooth_FactorOneSnaps(t *testing.T) {
	raw := Point{X: 100, Y: 400}
	want := Map(raw, testActive, testScreen)

	got := MapAndSmooth(raw, testActive, testScreen, Point{}, 1)
	assert.Equal(t, want, got)
}

func TestMapAndSmooth_Extrapolates(t *testing.T) {
	got := MapAndSmooth(Point{X: 0, Y: 0}, testActive, testScreen, Point{}, 1)
	assert.Less(t, got.X, 0.0)
	assert.Less(t, got.Y, 0.0)
}

func TestMapAndSmooth_Converges(t *testing.T) {
	raw := Point{X: 500, Y: 120}
	target := Map(raw, testActive, testScreen)

	prev := Point{}
	lastDist := math.Inf(1)
	for frame := 0; frame < 200; frame++ {
		prev = MapAndSmooth(raw, testActive, testScreen, prev, 4)
		dist := math.Hypot(target.X-prev.X, target.Y-prev.Y)
		assert.LessOrEqual(t, dist, lastDist, "frame %d moved away from target", frame)
		lastDist = dist
	}
	assert.InDelta(t, target.X, prev.X, 1e-9)
	assert.InDelta(t, target.Y, prev.Y, 1e-9)
}

func TestSmooth_FactorBelowOne(t *testing.T) {
	got := Smooth(Point{}, Point{X: 10, Y: 10}, 0.5)
	assert.Equal(t, Point{X: 10, Y: 10}, got)
}

func TestSmoother(t *testing.T) {
	s := NewSmoother(testActive, testScreen, 4)
	assert.Equal(t, Point{}, s.Last())

	first := s.Update(Point{X: 320, Y: 240})
	assert.Equal(t, Point{X: 240, Y: 135}, first)
	assert.Equal(t, first, s.Last())

	second := s.Update(Point{X: 320, Y: 240})
	assert.Equal(t, MapAndSmooth(Point{X: 320, Y: 240}, testActive, testScreen, first, 4), second)
}
