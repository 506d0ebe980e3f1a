package potential

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/coords"
)

// Path gives the position of an object at time t.
type Path interface {
	Position(t float64) r3.Vec
}

// MovingObject is a spherical potential whose center follows Path.
type MovingObject struct {
	Pot  Spherical
	Path Path
}

func (m *MovingObject) offset(R, z, phi, t float64) (r3.Vec, float64) {
	d := r3.Sub(coords.CylToRect(R, phi, z), m.Path.Position(t))
	return d, r3.Norm(d)
}

func (m *MovingObject) force(R, z, phi, t float64) r3.Vec {
	return m.Force(coords.CylToRect(R, phi, z), t)
}

// Force returns the Cartesian acceleration toward the object's current center.
func (m *MovingObject) Force(x r3.Vec, t float64) r3.Vec {
	d := r3.Sub(x, m.Path.Position(t))
	r := r3.Norm(d)
	if r == 0 {
		return r3.Vec{}
	}
	return r3.Scale(m.Pot.RadialForce(r)/r, d)
}

func (m *MovingObject) Evaluate(R, z, phi, t float64) float64 {
	_, r := m.offset(R, z, phi, t)
	return m.Pot.Evaluate(r, 0, 0, t)
}

func (m *MovingObject) RForce(R, z, phi, t float64) float64 {
	f := m.force(R, z, phi, t)
	sp, cp := math.Sincos(phi)
	return f.X*cp + f.Y*sp
}

func (m *MovingObject) ZForce(R, z, phi, t float64) float64 {
	return m.force(R, z, phi, t).Z
}

func (m *MovingObject) PhiTorque(R, z, phi, t float64) float64 {
	f := m.force(R, z, phi, t)
	sp, cp := math.Sincos(phi)
	return R * (-f.X*sp + f.Y*cp)
}
