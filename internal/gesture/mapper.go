// Package gesture maps fingertip positions onto a target surface and turns
// finger patterns into gesture labels.
package gesture

// Point is a position in either camera or target space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewRect returns the rectangle spanning (x0, y0) to (x1, y1).
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// Inset returns a width x height frame shrunk by margin on all four sides.
func Inset(width, height, margin float64) Rect {
	return NewRect(margin, margin, width-margin, height-margin)
}

// Dx returns the rectangle's width.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Interp linearly maps v from [x0, x1] onto [y0, y1]. Values outside the
// input range extrapolate. A degenerate input range returns y0.
func Interp(v, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (v-x0)*(y1-y0)/(x1-x0)
}

// InterpClamped is Interp with v clamped into [x0, x1] first, so the result
// never leaves [y0, y1]. The input range may be given in either order.
func InterpClamped(v, x0, x1, y0, y1 float64) float64 {
	lo, hi := x0, x1
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		v = lo
	} else if v > hi {
		v = hi
	}
	return Interp(v, x0, x1, y0, y1)
}

// Map rescales p from the active region into the target region without clamping.
func Map(p Point, active, target Rect) Point {
	return Point{
		X: Interp(p.X, active.Min.X, active.Max.X, target.Min.X, target.Max.X),
		Y: Interp(p.Y, active.Min.Y, active.Max.Y, target.Min.Y, target.Max.Y),
	}
}

// Smooth applies one step of first-order exponential smoothing:
// previous + (target - previous) / factor. Factors below 1 are treated as 1.
func Smooth(previous, target Point, factor float64) Point {
	if factor < 1 {
		factor = 1
	}
	return Point{
		X: previous.X + (target.X-previous.X)/factor,
		Y: previous.Y + (target.Y-previous.Y)/factor,
	}
}

// MapAndSmooth maps raw into target space and smooths it against previous.
// It is pure; the caller keeps the result as the next previous value.
func MapAndSmooth(raw Point, active, target Rect, previous Point, factor float64) Point {
	return Smooth(previous, Map(raw, active, target), factor)
}

// Smoother owns a smoothed position between frames.
type Smoother struct {
	Active Rect
	Target Rect
	Factor float64

	last Point
}

// NewSmoother creates a Smoother starting at the target origin (0, 0).
func NewSmoother(active, target Rect, factor float64) *Smoother {
	return &Smoother{Active: active, Target: target, Factor: factor}
}

// Update feeds one raw point and returns the new smoothed position.
func (s *Smoother) Update(raw Point) Point {
	s.last = MapAndSmooth(raw, s.Active, s.Target, s.last, s.Factor)
	return s.last
}

// Last returns the most recent smoothed position.
func (s *Smoother) Last() Point {
	return s.last
}
