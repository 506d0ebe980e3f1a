package impulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/geom"
	"github.com/banshee-data/streamkick/internal/numeric"
	"github.com/banshee-data/streamkick/internal/orbit"
	"github.com/banshee-data/streamkick/internal/potential"
)

// PlummerStream returns the kicks on a straight stream from a stream of
// Plummer spheres of scale rs moving with the perturber. The element that
// passes the impact point at time tau carries mass gsigma(tau) dtau; at that
// time the star sits at y - |v| tau along the stream. The window is required.
func (est *Estimator) PlummerStream(s Straight, e Encounter, gsigma func(float64) float64, rs float64, win *Window) (*mat.Dense, error) {
	if err := win.validate(); err != nil {
		return nil, err
	}
	if err := checkScale("rs", rs, true); err != nil {
		return nil, err
	}
	n, err := s.size()
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v, y := s.at(i)
		f, err := geom.Decompose(v, e.W)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		vmag := r3.Norm(v)
		integrand := func(tau float64, dst []float64) {
			// Plummer profiles cannot fail.
			dv, _ := straightKick(f, e.B, y-vmag*tau, plummerProfile(gsigma(tau), rs))
			dst[0], dst[1], dst[2] = dv.X, dv.Y, dv.Z
		}
		// The separation is smallest when the star crosses the impact point.
		breaks := []float64{y / vmag}
		dv, err := numeric.IntegrateVec(integrand, 3, win.TMin, win.TMax, breaks, est.cfg.Quad)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, f.ToInput(r3.Vec{X: dv[0], Y: dv[1], Z: dv[2]}))
	}
	return out, nil
}

// PlummerStreamCurved is PlummerStream for a curved stream. The stream's
// reference orbit through (X0, V0) is integrated in galpot; for the element
// passing at tau, a star at (X, V) at time T is moved by the reference orbit's
// displacement between T and T - tau, and the element contributes the curved
// Plummer kick at that state.
func (est *Estimator) PlummerStreamCurved(c Curved, e Encounter, gsigma func(float64) float64, rs float64, galpot potential.Potential, win *Window) (*mat.Dense, error) {
	if err := win.validate(); err != nil {
		return nil, err
	}
	if err := checkScale("rs", rs, true); err != nil {
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

	tlo, thi := 0.0, 0.0
	for i := 0; i < n; i++ {
		_, _, t := c.at(i)
		tlo = math.Min(tlo, t-win.TMax)
		thi = math.Max(thi, t-win.TMin)
	}
	logf("stream reference orbit over [%.4g, %.4g] for %d stars", tlo, thi, n)
	ref, err := orbit.NewIntegrator(galpot, est.cfg.ODE).Sample(orbit.State{X: c.X0, V: c.V0}, tlo, thi, est.cfg.OrbitSamples)
	if err != nil {
		return nil, fmt.Errorf("stream orbit: %w", err)
	}

	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v, x, t := c.at(i)
		x0, v0 := ref.Position(t), ref.Velocity(t)
		var ierr error
		integrand := func(tau float64, dst []float64) {
			dst[0], dst[1], dst[2] = 0, 0, 0
			if ierr != nil {
				return
			}
			xs := r3.Add(x, r3.Sub(ref.Position(t-tau), x0))
			vs := r3.Add(v, r3.Sub(ref.Velocity(t-tau), v0))
			d, wmag, err := geom.CurvedSeparation(xs, vs, c.X0, b0, e.W)
			if err != nil {
				ierr = err
				return
			}
			dv, _ := kickAlong(d, wmag, 0, plummerProfile(gsigma(tau), rs))
			dst[0], dst[1], dst[2] = dv.X, dv.Y, dv.Z
		}
		dv, err := numeric.IntegrateVec(integrand, 3, win.TMin, win.TMax, nil, est.cfg.Quad)
		if ierr != nil {
			err = ierr
		}
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, r3.Vec{X: dv[0], Y: dv[1], Z: dv[2]})
	}
	return out, nil
}
