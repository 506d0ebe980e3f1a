package impulse

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/geom"
	"github.com/banshee-data/streamkick/internal/numeric"
	"github.com/banshee-data/streamkick/internal/orbit"
	"github.com/banshee-data/streamkick/internal/potential"
)

// OrbitIntegration returns kicks computed by integrating the perturber's force
// along its orbit. The perturber passes x0 - b0 with velocity w at t = 0 and
// moves in galpot over [-tmax, tmax]; each star moves on the straight line
// x + v t. pot is the perturber's own potential, centered on the perturber.
func (est *Estimator) OrbitIntegration(c Curved, e Encounter, pot potential.Potential, tmax float64, galpot potential.Potential) (*mat.Dense, error) {
	if err := checkScale("tmax", tmax, false); err != nil {
		return nil, err
	}
	n, err := c.size()
	if err != nil {
		return nil, err
	}
	b0, err := geom.ImpactOffset(e.W, c.V0, e.B)
	if err != nil {
		return nil, err
	}

	start := orbit.State{X: r3.Sub(c.X0, b0), V: e.W}
	path, err := orbit.NewIntegrator(galpot, est.cfg.ODE).Sample(start, -tmax, tmax, est.cfg.OrbitSamples)
	if err != nil {
		return nil, fmt.Errorf("perturber orbit: %w", err)
	}

	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v, x, _ := c.at(i)
		integrand := func(t float64, dst []float64) {
			rel := r3.Sub(r3.Add(x, r3.Scale(t, v)), path.Position(t))
			a := potential.Force(pot, rel, 0)
			dst[0], dst[1], dst[2] = a.X, a.Y, a.Z
		}
		breaks := encounterBreaks(r3.Sub(x, start.X), r3.Sub(v, e.W), -tmax, tmax)
		dv, err := numeric.IntegrateVec(integrand, 3, -tmax, tmax, breaks, est.cfg.Quad)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, r3.Vec{X: dv[0], Y: dv[1], Z: dv[2]})
	}
	return out, nil
}

// encounterBreaks returns quadrature break points around the straight-line
// time of closest approach of a star at offset d moving at relative velocity
// u, spaced geometrically from the encounter time |d_perp|/|u| outward.
func encounterBreaks(d, u r3.Vec, tmin, tmax float64) []float64 {
	u2 := r3.Norm2(u)
	if u2 == 0 {
		return nil
	}
	tc := -r3.Dot(d, u) / u2
	tau := r3.Norm(geom.Perpendicular(d, u)) / math.Sqrt(u2)
	if floor := 1e-9 * (tmax - tmin); !(tau > floor) {
		tau = floor
	}

	var breaks []float64
	if tc > tmin && tc < tmax {
		breaks = append(breaks, tc)
	}
	for dt := tau; dt < tmax-tmin; dt *= 2 {
		if lo := tc - dt; lo > tmin && lo < tmax {
			breaks = append(breaks, lo)
		}
		if hi := tc + dt; hi > tmin && hi < tmax {
			breaks = append(breaks, hi)
		}
	}
	sort.Float64s(breaks)
	return breaks
}

// IntegrationWindow overrides the full-integration window. Zero fields fall
// back to the estimator configuration.
type IntegrationWindow struct {
	// TMaxFactor sets tmax = TMaxFactor rs/|w - v0|.
	TMaxFactor float64
	// N is the number of perturber orbit samples per side; the integration
	// step is capped at tmax/N.
	N int
}

// FullPlummerIntegration returns kicks from integrating every star through
// galpot plus a Plummer sphere (gm, rs) that moves on its own orbit in galpot.
// Each star is integrated back to -tmax in galpot, forward to +tmax with the
// perturber, and back to t = 0 in galpot again; the kick is the difference
// between that velocity and the input velocity.
func (est *Estimator) FullPlummerIntegration(c Curved, e Encounter, galpot potential.Potential, gm, rs float64, win IntegrationWindow) (*mat.Dense, error) {
	if win.TMaxFactor <= 0 {
		win.TMaxFactor = est.cfg.TMaxFactor
	}
	if win.N <= 0 {
		win.N = est.cfg.IntegrationSteps
	}
	n, err := c.size()
	if err != nil {
		return nil, err
	}
	plummer, err := potential.NewPlummer(gm, rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	b0, err := geom.ImpactOffset(e.W, c.V0, e.B)
	if err != nil {
		return nil, err
	}
	wrel := r3.Norm(r3.Sub(e.W, c.V0))
	if wrel == 0 {
		return nil, fmt.Errorf("%w: w=%v v0=%v", geom.ErrZeroRelativeVelocity, e.W, c.V0)
	}

	tmax := win.TMaxFactor * rs / wrel
	ode := est.cfg.ODE
	ode.MaxStep = tmax / float64(win.N)
	logf("full integration: %d stars, tmax=%.4g, max step=%.3g", n, tmax, ode.MaxStep)

	galaxy := orbit.NewIntegrator(galpot, ode)
	path, err := galaxy.Sample(orbit.State{X: r3.Sub(c.X0, b0), V: e.W}, -tmax, tmax, win.N)
	if err != nil {
		return nil, fmt.Errorf("perturber orbit: %w", err)
	}
	perturbed := orbit.NewIntegrator(potential.List{galpot, &potential.MovingObject{Pot: plummer, Path: path}}, ode)

	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v, x, _ := c.at(i)
		s, err := galaxy.Final(orbit.State{X: x, V: v}, 0, -tmax)
		if err == nil {
			s, err = perturbed.Final(s, -tmax, tmax)
		}
		if err == nil {
			s, err = galaxy.Final(s, tmax, 0)
		}
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, r3.Sub(s.V, v))
	}
	return out, nil
}
