// Package geom holds the encounter geometry shared by the kick estimators:
// the rotation into the stream frame, the decomposition of the perturber's
// relative velocity, and the perpendicular separation between a star and the
// perturber's track.
//
// The stream frame has the local stream velocity along +y. A perturber with
// velocity w moves relative to a star with velocity v at W = w - v; the impact
// parameter is measured perpendicular to W.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrZeroVelocity is returned when the stream velocity vanishes and the
	// stream direction is undefined.
	ErrZeroVelocity = errors.New("geom: stream velocity is zero")
	// ErrZeroRelativeVelocity is returned when the perturber moves with the
	// star, so the impulse approximation does not apply.
	ErrZeroRelativeVelocity = errors.New("geom: relative velocity is zero")
	// ErrDegenerateImpact is returned when the perturber velocity is parallel
	// to the stream velocity at closest approach, leaving the impact direction
	// undefined.
	ErrDegenerateImpact = errors.New("geom: impact direction undefined")
)

var yHat = r3.Vec{Y: 1}

// RotationToY returns the rotation R with R v/|v| = y. Already aligned
// vectors give the identity, anti-aligned ones a half turn about x.
func RotationToY(v r3.Vec) (*r3.Mat, error) {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return nil, fmt.Errorf("%w: v=%v", ErrZeroVelocity, v)
	}
	u := r3.Scale(1/n, v)
	c := r3.Dot(u, yHat)
	axis := r3.Cross(u, yHat)
	s := r3.Norm(axis)
	switch {
	case s == 0 && c > 0:
		return r3.Eye(), nil
	case s == 0:
		return r3.NewRotation(math.Pi, r3.Vec{X: 1}).Mat(), nil
	}
	return r3.NewRotation(math.Atan2(s, c), axis).Mat(), nil
}

// Frame describes a perturber velocity in the stream frame of one star.
type Frame struct {
	// Rot rotates input-frame vectors into the stream frame.
	Rot *r3.Mat
	// TildeW is the perturber velocity in the stream frame.
	TildeW r3.Vec
	// WPar is the relative speed along the stream, |v| - TildeW.Y.
	WPar float64
	// WPerp is the perturber speed perpendicular to the stream.
	WPerp float64
	// WMag is the relative speed |w - v|.
	WMag float64
}

// Decompose rotates w into the stream frame of a star moving with v.
func Decompose(v, w r3.Vec) (Frame, error) {
	rot, err := RotationToY(v)
	if err != nil {
		return Frame{}, err
	}
	tw := rot.MulVec(w)
	f := Frame{
		Rot:    rot,
		TildeW: tw,
		WPar:   r3.Norm(v) - tw.Y,
		WPerp:  math.Hypot(tw.X, tw.Z),
	}
	f.WMag = math.Hypot(f.WPar, f.WPerp)
	if f.WMag == 0 {
		return Frame{}, fmt.Errorf("%w: w=%v v=%v", ErrZeroRelativeVelocity, w, v)
	}
	return f, nil
}

// Relative returns the relative velocity W = w - v in the stream frame.
func (f Frame) Relative() r3.Vec {
	return r3.Vec{X: f.TildeW.X, Y: -f.WPar, Z: f.TildeW.Z}
}

// alignedTol is the perpendicular speed below which the perturber is taken to
// move along the stream.
const alignedTol = 1e-10

// Aligned reports whether the perturber moves along the stream, leaving no
// transverse speed to fix the impact direction.
func (f Frame) Aligned() bool {
	return f.WPerp < alignedTol
}

// ImpactDirection returns the direction from the stream origin to the
// perturber at closest approach, in the stream frame. It is perpendicular to
// both the stream and W. For an aligned frame both transverse axes carry the
// full impact parameter and the result is (1, 0, -1).
func (f Frame) ImpactDirection() r3.Vec {
	if f.Aligned() {
		return r3.Vec{X: 1, Z: -1}
	}
	return r3.Vec{X: f.TildeW.Z / f.WPerp, Z: -f.TildeW.X / f.WPerp}
}

// Offset returns the stream-frame vector from a star at position y along the
// stream to the perturber as it passes the impact point.
func (f Frame) Offset(b, y float64) r3.Vec {
	return r3.Sub(r3.Scale(b, f.ImpactDirection()), r3.Scale(y, yHat))
}

// Separation returns the stream-frame vector from a star at position y along
// the stream to the closest point of the perturber's relative track, for an
// impact parameter b.
func (f Frame) Separation(b, y float64) r3.Vec {
	return Perpendicular(f.Offset(b, y), f.Relative())
}

// ClosestApproachTime returns the time at which a track through d moving
// with velocity w is nearest the origin. w must be non-zero.
func ClosestApproachTime(d, w r3.Vec) float64 {
	return -r3.Dot(d, w) / r3.Norm2(w)
}

// ToInput rotates a stream-frame vector back into the input frame.
func (f Frame) ToInput(x r3.Vec) r3.Vec {
	return f.Rot.MulVecTrans(x)
}

// ImpactOffset returns b0 = b (w x v0)/|w x v0|, the offset from the perturber
// to the stream at closest approach for a curved stream.
func ImpactOffset(w, v0 r3.Vec, b float64) (r3.Vec, error) {
	c := r3.Cross(w, v0)
	n := r3.Norm(c)
	if n == 0 {
		return r3.Vec{}, fmt.Errorf("%w: w=%v v0=%v", ErrDegenerateImpact, w, v0)
	}
	return r3.Scale(b/n, c), nil
}

// Perpendicular returns the part of d perpendicular to w. w must be non-zero.
func Perpendicular(d, w r3.Vec) r3.Vec {
	return r3.Sub(d, r3.Scale(r3.Dot(d, w)/r3.Norm2(w), w))
}

// CurvedSeparation returns the vector from a star at x (velocity v) to the
// closest point of the perturber's relative track, where the perturber passes
// x0 - b0 with velocity w. It also returns |w - v|.
func CurvedSeparation(x, v, x0, b0, w r3.Vec) (r3.Vec, float64, error) {
	rel := r3.Sub(w, v)
	wmag := r3.Norm(rel)
	if wmag == 0 {
		return r3.Vec{}, 0, fmt.Errorf("%w: w=%v v=%v", ErrZeroRelativeVelocity, w, v)
	}
	d := r3.Sub(r3.Sub(x0, b0), x)
	return Perpendicular(d, rel), wmag, nil
}
