package impulse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/geom"
)

var (
	// ErrShape is returned when batched inputs have incompatible lengths or
	// the batch is empty.
	ErrShape = errors.New("impulse: incompatible input shapes")
	// ErrMissingBounds is returned by the stream estimators when the time
	// window is omitted or not finite.
	ErrMissingBounds = errors.New("impulse: finite integration bounds are required")
	// ErrNegativeArgument is returned by HernquistX for s < 0.
	ErrNegativeArgument = errors.New("impulse: argument must be non-negative")
	// ErrInvalidParameter is returned for non-physical perturber parameters.
	ErrInvalidParameter = errors.New("impulse: invalid parameter")
)

// Encounter describes the perturber's passage.
type Encounter struct {
	// B is the impact parameter. Its sign selects which side of the stream
	// the perturber passes.
	B float64
	// W is the perturber velocity.
	W r3.Vec
}

// Straight holds stars in the straight-stream approximation. Either slice may
// have length 1 to broadcast against the other.
type Straight struct {
	V []r3.Vec
	// Y is the signed distance along the stream from the impact point.
	Y []float64
}

func (s Straight) size() (int, error) {
	return batch(len(s.V), len(s.Y))
}

func (s Straight) at(i int) (r3.Vec, float64) {
	return s.V[pick(i, len(s.V))], s.Y[pick(i, len(s.Y))]
}

// Curved holds stars with full phase-space positions.
type Curved struct {
	V []r3.Vec
	X []r3.Vec
	// T is the time at which each star reaches (X, V) relative to the impact.
	// It is only used by PlummerStreamCurved; nil means all zero.
	T []float64
	// X0 and V0 are the position and velocity of the stream point at
	// closest approach.
	X0, V0 r3.Vec
}

func (c Curved) size() (int, error) {
	n, err := batch(len(c.V), len(c.X))
	if err != nil || c.T == nil {
		return n, err
	}
	return batch(n, len(c.T))
}

func (c Curved) at(i int) (v, x r3.Vec, t float64) {
	v, x = c.V[pick(i, len(c.V))], c.X[pick(i, len(c.X))]
	if c.T != nil {
		t = c.T[pick(i, len(c.T))]
	}
	return v, x, t
}

// Window is the time range over which a stream perturber passes.
type Window struct {
	TMin, TMax float64
}

func (w *Window) validate() error {
	if w == nil {
		return ErrMissingBounds
	}
	if math.IsInf(w.TMin, 0) || math.IsInf(w.TMax, 0) || math.IsNaN(w.TMin) || math.IsNaN(w.TMax) {
		return fmt.Errorf("%w: got [%g, %g]", ErrMissingBounds, w.TMin, w.TMax)
	}
	if w.TMin >= w.TMax {
		return fmt.Errorf("%w: tmin %g must be below tmax %g", ErrMissingBounds, w.TMin, w.TMax)
	}
	return nil
}

func batch(a, b int) (int, error) {
	switch {
	case a == 0 || b == 0:
		return 0, fmt.Errorf("%w: empty batch (%d, %d)", ErrShape, a, b)
	case a == b, b == 1:
		return a, nil
	case a == 1:
		return b, nil
	}
	return 0, fmt.Errorf("%w: lengths %d and %d", ErrShape, a, b)
}

func pick(i, n int) int {
	if n == 1 {
		return 0
	}
	return i
}

func setRow(m *mat.Dense, i int, v r3.Vec) {
	m.Set(i, 0, v.X)
	m.Set(i, 1, v.Y)
	m.Set(i, 2, v.Z)
}

// Row returns row i of a kick matrix as a vector.
func Row(m mat.Matrix, i int) r3.Vec {
	return r3.Vec{X: m.At(i, 0), Y: m.At(i, 1), Z: m.At(i, 2)}
}

// profile returns the kick magnitude for a perpendicular separation B and a
// relative speed W. tc is the time of closest approach, counted from the
// moment the perturber passes the impact point; profiles over an unbounded
// passage ignore it.
type profile func(B, W, tc float64) (float64, error)

// kickAlong scales the separation d to the profile's magnitude. A star on the
// perturber's track gets no kick.
func kickAlong(d r3.Vec, wmag, tc float64, prof profile) (r3.Vec, error) {
	B := r3.Norm(d)
	if B == 0 {
		return r3.Vec{}, nil
	}
	m, err := prof(B, wmag, tc)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Scale(m/B, d), nil
}

// straightKick returns the stream-frame kick on a star a distance y along a
// straight stream.
func straightKick(f geom.Frame, b, y float64, prof profile) (r3.Vec, error) {
	tc := geom.ClosestApproachTime(f.Offset(b, y), f.Relative())
	d := f.Separation(b, y)
	if !f.Aligned() {
		return kickAlong(d, f.WMag, tc, prof)
	}
	// A perturber moving along the stream passes every star at |b|; the
	// full kick lands on both x and -z.
	B := math.Abs(b)
	if B == 0 {
		return r3.Vec{}, nil
	}
	m, err := prof(B, f.WMag, tc)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Scale(m/B, d), nil
}
