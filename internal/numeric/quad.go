// Package numeric provides the adaptive quadrature and ODE engines used by the
// kick estimators. Both engines run with a bounded amount of work and report
// ErrNoConvergence instead of returning a silently inaccurate value.
package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

var (
	// ErrNoConvergence is returned when a tolerance cannot be met within the
	// configured work budget.
	ErrNoConvergence = errors.New("numeric: did not converge")
	// ErrInvalidInterval is returned for NaN bounds or min > max.
	ErrInvalidInterval = errors.New("numeric: invalid integration interval")
)

// QuadConfig controls the adaptive Gauss–Legendre integrator.
type QuadConfig struct {
	RelTol float64 // relative tolerance on the largest component of the result
	AbsTol float64 // absolute tolerance
	// Order is the number of Gauss–Legendre nodes in the coarse estimate of a
	// panel; the refined estimate uses twice as many.
	Order int
	// MaxIntervals bounds the number of panels before giving up.
	MaxIntervals int
	// Scale is the characteristic length used to map infinite ranges onto
	// finite ones. Zero means 1.
	Scale float64
}

// DefaultQuadConfig returns tolerances suitable for kicks accurate to ~1e-11.
func DefaultQuadConfig() QuadConfig {
	return QuadConfig{
		RelTol:       1e-11,
		AbsTol:       1e-15,
		Order:        15,
		MaxIntervals: 400,
		Scale:        1,
	}
}

// VecFunc evaluates a vector-valued integrand at x, writing into dst.
type VecFunc func(x float64, dst []float64)

// Integrate returns the integral of f over [min, max]. Either bound may be
// infinite.
func Integrate(f func(float64) float64, min, max float64, cfg QuadConfig) (float64, error) {
	out, err := IntegrateVec(func(x float64, dst []float64) { dst[0] = f(x) }, 1, min, max, nil, cfg)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// IntegrateVec integrates a dim-component integrand over [min, max]. The
// optional breaks split a finite range into initial panels, which lets the
// caller point the integrator at narrow features it could otherwise step over.
// Breaks outside (min, max) are ignored.
func IntegrateVec(f VecFunc, dim int, min, max float64, breaks []float64, cfg QuadConfig) ([]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidInterval, dim)
	}
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, min, max)
	}
	if min == max {
		return make([]float64, dim), nil
	}
	cfg = cfg.withDefaults()

	g, lo, hi := mapInfinite(f, dim, min, max, cfg.Scale)
	if g == nil {
		g, lo, hi = f, min, max
	} else {
		breaks = nil
	}

	a := newAdaptive(g, dim, cfg)
	edges := []float64{lo}
	for _, b := range breaks {
		if b > edges[len(edges)-1] && b < hi {
			edges = append(edges, b)
		}
	}
	edges = append(edges, hi)
	return a.run(edges)
}

func (c QuadConfig) withDefaults() QuadConfig {
	d := DefaultQuadConfig()
	if c.RelTol <= 0 && c.AbsTol <= 0 {
		c.RelTol, c.AbsTol = d.RelTol, d.AbsTol
	}
	if c.Order <= 0 {
		c.Order = d.Order
	}
	if c.MaxIntervals <= 0 {
		c.MaxIntervals = d.MaxIntervals
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	return c
}

// mapInfinite rewrites an integral with an infinite bound as one over a finite
// range; it returns nil when both bounds are finite.
func mapInfinite(f VecFunc, dim int, min, max, L float64) (VecFunc, float64, float64) {
	buf := make([]float64, dim)
	scaled := func(x, jac float64, dst []float64) {
		f(x, buf)
		for i := range dst {
			dst[i] = buf[i] * jac
		}
	}
	switch {
	case math.IsInf(min, -1) && math.IsInf(max, 1):
		// s = L t/(1-t^2)
		return func(t float64, dst []float64) {
			v := 1 - t*t
			scaled(L*t/v, L*(1+t*t)/(v*v), dst)
		}, -1, 1
	case math.IsInf(max, 1):
		// s = min + L t/(1-t)
		return func(t float64, dst []float64) {
			v := 1 - t
			scaled(min+L*t/v, L/(v*v), dst)
		}, 0, 1
	case math.IsInf(min, -1):
		// s = max - L (1-t)/t
		return func(t float64, dst []float64) {
			scaled(max-L*(1-t)/t, L/(t*t), dst)
		}, 0, 1
	}
	return nil, 0, 0
}

type panel struct {
	lo, hi float64
	val    []float64
	err    float64
}

type adaptive struct {
	f   VecFunc
	dim int
	cfg QuadConfig

	// Nodes and weights on [-1, 1] for the coarse and refined rules.
	xc, wc []float64
	xf, wf []float64
	buf    []float64
}

func newAdaptive(f VecFunc, dim int, cfg QuadConfig) *adaptive {
	a := &adaptive{f: f, dim: dim, cfg: cfg, buf: make([]float64, dim)}
	a.xc, a.wc = legendre(cfg.Order)
	a.xf, a.wf = legendre(2 * cfg.Order)
	return a
}

func legendre(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	return x, w
}

func (a *adaptive) sum(lo, hi float64, xs, ws []float64) []float64 {
	half, mid := 0.5*(hi-lo), 0.5*(hi+lo)
	out := make([]float64, a.dim)
	for i, x := range xs {
		a.f(mid+half*x, a.buf)
		for k, v := range a.buf {
			out[k] += ws[i] * v
		}
	}
	for k := range out {
		out[k] *= half
	}
	return out
}

func (a *adaptive) eval(lo, hi float64) panel {
	coarse := a.sum(lo, hi, a.xc, a.wc)
	fine := a.sum(lo, hi, a.xf, a.wf)
	var e float64
	for k := range fine {
		e = math.Max(e, math.Abs(fine[k]-coarse[k]))
	}
	return panel{lo: lo, hi: hi, val: fine, err: e}
}

func (a *adaptive) run(edges []float64) ([]float64, error) {
	panels := make([]panel, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		panels = append(panels, a.eval(edges[i], edges[i+1]))
	}

	total := make([]float64, a.dim)
	for {
		for k := range total {
			total[k] = 0
		}
		var errSum float64
		worst := 0
		for i, p := range panels {
			for k, v := range p.val {
				total[k] += v
			}
			errSum += p.err
			if p.err > panels[worst].err {
				worst = i
			}
		}
		if math.IsNaN(errSum) {
			return nil, fmt.Errorf("%w: integrand returned NaN", ErrNoConvergence)
		}

		var scale float64
		for _, v := range total {
			scale = math.Max(scale, math.Abs(v))
		}
		if errSum <= math.Max(a.cfg.AbsTol, a.cfg.RelTol*scale) {
			return total, nil
		}
		if len(panels) >= a.cfg.MaxIntervals {
			return nil, fmt.Errorf("%w: error estimate %.3g after %d intervals", ErrNoConvergence, errSum, len(panels))
		}

		p := panels[worst]
		mid := 0.5 * (p.lo + p.hi)
		if mid <= p.lo || mid >= p.hi {
			return nil, fmt.Errorf("%w: interval [%g, %g] cannot be bisected", ErrNoConvergence, p.lo, p.hi)
		}
		panels[worst] = a.eval(p.lo, mid)
		panels = append(panels, a.eval(mid, p.hi))
	}
}
