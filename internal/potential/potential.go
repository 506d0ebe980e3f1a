// Package potential defines the gravitational potential capability consumed by
// the kick estimators and the orbit integrator, together with the concrete
// potentials the estimators are tested against.
//
// All potentials work in natural units (G = 1, unit distance ro, unit velocity
// vo) and are evaluated in cylindrical coordinates (R, z, phi) at time t.
// Forces are the negative gradient, following the usual galactic-dynamics
// convention: RForce = -dPhi/dR.
package potential

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/coords"
)

// ErrNonPositiveParameter is returned when a scale length, mass or axis ratio
// that must be positive is not.
var ErrNonPositiveParameter = errors.New("potential: parameter must be positive")

// Potential is the capability every potential provides.
type Potential interface {
	Evaluate(R, z, phi, t float64) float64
	RForce(R, z, phi, t float64) float64
	ZForce(R, z, phi, t float64) float64
}

// Torquer is implemented by non-axisymmetric potentials. PhiTorque returns
// -dPhi/dphi.
type Torquer interface {
	PhiTorque(R, z, phi, t float64) float64
}

// SecondDerivatives is implemented by potentials that provide analytic second
// derivatives of Phi.
type SecondDerivatives interface {
	R2Deriv(R, z, phi, t float64) float64
	Z2Deriv(R, z, phi, t float64) float64
	RZDeriv(R, z, phi, t float64) float64
}

// Scalable is implemented by potentials whose amplitude can be rescaled, which
// is what Normalize needs.
type Scalable interface {
	Potential
	Amplitude() float64
	SetAmplitude(amp float64)
}

// CartesianForcer is implemented by potentials that compute their force in
// Cartesian coordinates directly, which keeps the azimuthal part on the z axis.
type CartesianForcer interface {
	Force(x r3.Vec, t float64) r3.Vec
}

// Force returns the Cartesian acceleration at position x and time t.
func Force(p Potential, x r3.Vec, t float64) r3.Vec {
	if c, ok := p.(CartesianForcer); ok {
		return c.Force(x, t)
	}
	R, phi, z := coords.RectToCyl(x)
	fR := p.RForce(R, z, phi, t)
	fz := p.ZForce(R, z, phi, t)
	var fT float64
	if tq, ok := p.(Torquer); ok && R > 0 {
		fT = tq.PhiTorque(R, z, phi, t) / R
	}
	return coords.CylVecToRect(fR, fT, fz, phi)
}

// CircularVelocity returns the circular speed sqrt(-R F_R) in the midplane.
func CircularVelocity(p Potential, R float64) float64 {
	return math.Sqrt(R * -p.RForce(R, 0, 0, 0))
}

// Normalize rescales p so that its circular velocity at R = 1 is sqrt(norm);
// norm = 1 makes the potential supply the whole unit rotation curve.
func Normalize(p Scalable, norm float64) error {
	if norm <= 0 {
		return fmt.Errorf("normalize: %w: got %g", ErrNonPositiveParameter, norm)
	}
	f := math.Abs(p.RForce(1, 0, 0, 0))
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("normalize: radial force at R=1 is %g", f)
	}
	p.SetAmplitude(p.Amplitude() * norm / f)
	return nil
}

// Zero is a potential that exerts no force anywhere.
type Zero struct{}

func (Zero) Evaluate(R, z, phi, t float64) float64 { return 0 }
func (Zero) RForce(R, z, phi, t float64) float64   { return 0 }
func (Zero) ZForce(R, z, phi, t float64) float64   { return 0 }

// List is the sum of its member potentials.
type List []Potential

func (l List) Evaluate(R, z, phi, t float64) float64 {
	var s float64
	for _, p := range l {
		s += p.Evaluate(R, z, phi, t)
	}
	return s
}

func (l List) RForce(R, z, phi, t float64) float64 {
	var s float64
	for _, p := range l {
		s += p.RForce(R, z, phi, t)
	}
	return s
}

func (l List) ZForce(R, z, phi, t float64) float64 {
	var s float64
	for _, p := range l {
		s += p.ZForce(R, z, phi, t)
	}
	return s
}

// Force sums the Cartesian forces of the members.
func (l List) Force(x r3.Vec, t float64) r3.Vec {
	var f r3.Vec
	for _, p := range l {
		f = r3.Add(f, Force(p, x, t))
	}
	return f
}

// PhiTorque sums the torques of the members that have one.
func (l List) PhiTorque(R, z, phi, t float64) float64 {
	var s float64
	for _, p := range l {
		if tq, ok := p.(Torquer); ok {
			s += tq.PhiTorque(R, z, phi, t)
		}
	}
	return s
}
