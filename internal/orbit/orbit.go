// Package orbit integrates test-particle orbits in a potential and turns the
// sampled orbits into continuous paths.
package orbit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/numeric"
	"github.com/banshee-data/streamkick/internal/potential"
)

// ErrSampling is returned for sample grids that cannot describe an orbit.
var ErrSampling = errors.New("orbit: invalid sampling")

// State is a phase-space point in Cartesian coordinates.
type State struct {
	X r3.Vec
	V r3.Vec
}

func (s State) slice() []float64 {
	return []float64{s.X.X, s.X.Y, s.X.Z, s.V.X, s.V.Y, s.V.Z}
}

func stateFrom(y []float64) State {
	return State{X: r3.Vec{X: y[0], Y: y[1], Z: y[2]}, V: r3.Vec{X: y[3], Y: y[4], Z: y[5]}}
}

// Integrator integrates orbits in a fixed potential.
type Integrator struct {
	pot potential.Potential
	cfg numeric.ODEConfig
}

// NewIntegrator returns an integrator for pot using the given ODE settings.
func NewIntegrator(pot potential.Potential, cfg numeric.ODEConfig) *Integrator {
	return &Integrator{pot: pot, cfg: cfg}
}

func (in *Integrator) system() numeric.System {
	return func(t float64, y, dydt []float64) {
		a := potential.Force(in.pot, r3.Vec{X: y[0], Y: y[1], Z: y[2]}, t)
		dydt[0], dydt[1], dydt[2] = y[3], y[4], y[5]
		dydt[3], dydt[4], dydt[5] = a.X, a.Y, a.Z
	}
}

// Integrate starts from s0 at ts[0] and returns the state at every time in ts.
// Decreasing ts integrate backward in time.
func (in *Integrator) Integrate(s0 State, ts []float64) ([]State, error) {
	ys, err := numeric.Solve(in.system(), s0.slice(), ts, in.cfg)
	if err != nil {
		return nil, fmt.Errorf("integrate orbit: %w", err)
	}
	out := make([]State, len(ys))
	for i, y := range ys {
		out[i] = stateFrom(y)
	}
	return out, nil
}

// Final returns the state reached at t1 when starting from s0 at t0.
func (in *Integrator) Final(s0 State, t0, t1 float64) (State, error) {
	if t0 == t1 {
		return s0, nil
	}
	out, err := in.Integrate(s0, []float64{t0, t1})
	if err != nil {
		return State{}, err
	}
	return out[1], nil
}

// Sample integrates from s0 at t = 0 backward to tmin and forward to tmax
// with n samples on each side, and returns the interpolated path. Either side
// may be empty (tmin = 0 or tmax = 0).
func (in *Integrator) Sample(s0 State, tmin, tmax float64, n int) (*Path, error) {
	if tmin > 0 || tmax < 0 || tmin == tmax {
		return nil, fmt.Errorf("%w: range [%g, %g] must bracket 0", ErrSampling, tmin, tmax)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples per side, got %d", ErrSampling, n)
	}

	var ts []float64
	var states []State
	if tmin < 0 {
		back, err := in.Integrate(s0, grid(0, tmin, n))
		if err != nil {
			return nil, err
		}
		for i := len(back) - 1; i > 0; i-- {
			ts = append(ts, tmin*float64(i)/float64(n-1))
			states = append(states, back[i])
		}
	}
	ts = append(ts, 0)
	states = append(states, s0)
	if tmax > 0 {
		fwd, err := in.Integrate(s0, grid(0, tmax, n))
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(fwd); i++ {
			ts = append(ts, tmax*float64(i)/float64(n-1))
			states = append(states, fwd[i])
		}
	}

	acc := make([]r3.Vec, len(states))
	for i, s := range states {
		acc[i] = potential.Force(in.pot, s.X, ts[i])
	}
	return NewPath(ts, states, acc)
}

// grid returns n evenly spaced times from t0 to t1 inclusive.
func grid(t0, t1 float64, n int) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
	return ts
}
