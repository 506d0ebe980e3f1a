package orbit

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// Path is a continuous orbit built from samples by cubic Hermite
// interpolation: positions use the sampled velocities as derivatives and
// velocities use the sampled accelerations. Outside the sampled range the end
// values are held.
type Path struct {
	tmin, tmax float64
	pos        [3]interp.PiecewiseCubic
	vel        [3]interp.PiecewiseCubic
}

// NewPath builds a path from strictly increasing times, the states at those
// times and the accelerations there.
func NewPath(ts []float64, states []State, acc []r3.Vec) (*Path, error) {
	n := len(ts)
	if n < 2 || len(states) != n || len(acc) != n {
		return nil, fmt.Errorf("%w: %d times, %d states, %d accelerations", ErrSampling, n, len(states), len(acc))
	}
	for i := 1; i < n; i++ {
		if !(ts[i] > ts[i-1]) {
			return nil, fmt.Errorf("%w: times must be strictly increasing at index %d", ErrSampling, i)
		}
	}

	p := &Path{tmin: ts[0], tmax: ts[n-1]}
	x, v, a := make([]float64, n), make([]float64, n), make([]float64, n)
	for k := 0; k < 3; k++ {
		for i := range ts {
			x[i] = component(states[i].X, k)
			v[i] = component(states[i].V, k)
			a[i] = component(acc[i], k)
		}
		p.pos[k].FitWithDerivatives(ts, x, v)
		p.vel[k].FitWithDerivatives(ts, v, a)
	}
	return p, nil
}

func component(v r3.Vec, k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// Position returns the interpolated position at t.
func (p *Path) Position(t float64) r3.Vec {
	return r3.Vec{X: p.pos[0].Predict(t), Y: p.pos[1].Predict(t), Z: p.pos[2].Predict(t)}
}

// Velocity returns the interpolated velocity at t.
func (p *Path) Velocity(t float64) r3.Vec {
	return r3.Vec{X: p.vel[0].Predict(t), Y: p.vel[1].Predict(t), Z: p.vel[2].Predict(t)}
}

// Range returns the sampled time range.
func (p *Path) Range() (tmin, tmax float64) { return p.tmin, p.tmax }
