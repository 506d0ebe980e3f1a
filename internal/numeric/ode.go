package numeric

import (
	"fmt"
	"math"
)

// System evaluates dy/dt at (t, y) into dydt.
type System func(t float64, y, dydt []float64)

// ODEConfig controls the adaptive Dormand–Prince integrator.
type ODEConfig struct {
	RelTol float64
	AbsTol float64
	// MaxStep caps |h|; zero leaves the step unbounded.
	MaxStep float64
	// MaxSteps bounds the number of attempted steps per Solve call.
	MaxSteps int
}

// DefaultODEConfig returns the tolerances used for orbit integration.
func DefaultODEConfig() ODEConfig {
	return ODEConfig{
		RelTol:   1e-11,
		AbsTol:   1e-13,
		MaxSteps: 2_000_000,
	}
}

// Dormand–Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	dpB = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

const (
	safety = 0.9
	minFac = 0.2
	maxFac = 10.0
)

// Solve integrates f from ts[0] with initial state y0 and returns the state at
// every time in ts (the first row is a copy of y0). ts must be strictly
// monotone; decreasing times integrate backward.
func Solve(f System, y0 []float64, ts []float64, cfg ODEConfig) ([][]float64, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	dir := 0.0
	for i := 1; i < len(ts); i++ {
		d := ts[i] - ts[i-1]
		if d == 0 || math.IsNaN(d) || (dir != 0 && math.Signbit(d) != math.Signbit(dir)) {
			return nil, fmt.Errorf("%w: output times must be strictly monotone", ErrInvalidInterval)
		}
		dir = math.Copysign(1, d)
	}
	if cfg.RelTol <= 0 && cfg.AbsTol <= 0 {
		d := DefaultODEConfig()
		cfg.RelTol, cfg.AbsTol = d.RelTol, d.AbsTol
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultODEConfig().MaxSteps
	}

	s := newStepper(f, y0, ts[0], cfg)
	out := make([][]float64, len(ts))
	out[0] = append([]float64(nil), y0...)
	for i := 1; i < len(ts); i++ {
		if err := s.advance(ts[i]); err != nil {
			return nil, err
		}
		out[i] = append([]float64(nil), s.y...)
	}
	return out, nil
}

type stepper struct {
	f     System
	cfg   ODEConfig
	t     float64
	y     []float64
	h     float64
	steps int

	k    [7][]float64
	tmp  []float64
	ynew []float64
	fsal bool
}

func newStepper(f System, y0 []float64, t0 float64, cfg ODEConfig) *stepper {
	n := len(y0)
	s := &stepper{f: f, cfg: cfg, t: t0, y: append([]float64(nil), y0...)}
	for i := range s.k {
		s.k[i] = make([]float64, n)
	}
	s.tmp = make([]float64, n)
	s.ynew = make([]float64, n)
	return s
}

// initialStep follows the starting-step heuristic of Hairer, Nørsett & Wanner.
func (s *stepper) initialStep(span float64) float64 {
	s.f(s.t, s.y, s.k[0])
	s.fsal = true
	var d0, d1 float64
	for i := range s.y {
		sc := s.cfg.AbsTol + s.cfg.RelTol*math.Abs(s.y[i])
		d0 += (s.y[i] / sc) * (s.y[i] / sc)
		d1 += (s.k[0][i] / sc) * (s.k[0][i] / sc)
	}
	h := 1e-6
	if d0 > 1e-10 && d1 > 1e-10 {
		h = 0.01 * math.Sqrt(d0/d1)
	}
	h = math.Min(h, math.Abs(span))
	if s.cfg.MaxStep > 0 {
		h = math.Min(h, s.cfg.MaxStep)
	}
	return h
}

func (s *stepper) advance(tEnd float64) error {
	dir := math.Copysign(1, tEnd-s.t)
	if s.h == 0 || math.Signbit(s.h) != math.Signbit(dir) {
		s.h = dir * s.initialStep(tEnd-s.t)
	}
	for s.t != tEnd {
		if s.steps >= s.cfg.MaxSteps {
			return fmt.Errorf("%w: step budget of %d exhausted at t=%g", ErrNoConvergence, s.cfg.MaxSteps, s.t)
		}
		s.steps++

		h := s.h
		if s.cfg.MaxStep > 0 && math.Abs(h) > s.cfg.MaxStep {
			h = dir * s.cfg.MaxStep
		}
		last := false
		if (s.t+h-tEnd)*dir >= 0 {
			h = tEnd - s.t
			last = true
		}
		if s.t+h == s.t {
			return fmt.Errorf("%w: step size underflow at t=%g", ErrNoConvergence, s.t)
		}

		errNorm := s.try(h)
		if math.IsNaN(errNorm) {
			return fmt.Errorf("%w: non-finite state at t=%g", ErrNoConvergence, s.t)
		}
		fac := maxFac
		if errNorm > 0 {
			fac = math.Max(minFac, math.Min(maxFac, safety*math.Pow(errNorm, -0.2)))
		}
		if errNorm <= 1 {
			if last {
				s.t = tEnd
			} else {
				s.t += h
			}
			s.y, s.ynew = s.ynew, s.y
			s.k[0], s.k[6] = s.k[6], s.k[0]
			// Keep the proposed step when the last step was truncated to hit tEnd.
			if !last || math.Abs(h*fac) > math.Abs(s.h) {
				s.h = h * fac
			}
			continue
		}
		s.h = h * math.Min(1, fac)
	}
	return nil
}

// try takes one step of size h from (t, y) into ynew and returns the scaled
// error norm. k[0] must hold f(t, y).
func (s *stepper) try(h float64) float64 {
	if !s.fsal {
		s.f(s.t, s.y, s.k[0])
		s.fsal = true
	}
	n := len(s.y)
	for i := 1; i < 7; i++ {
		for j := 0; j < n; j++ {
			acc := 0.0
			for m := 0; m < i; m++ {
				acc += dpA[i][m] * s.k[m][j]
			}
			s.tmp[j] = s.y[j] + h*acc
		}
		s.f(s.t+dpC[i]*h, s.tmp, s.k[i])
	}
	// The seventh stage is evaluated at the new solution (FSAL), so tmp
	// already holds the fifth-order result.
	copy(s.ynew, s.tmp)

	var sum float64
	for j := 0; j < n; j++ {
		e := 0.0
		for m := 0; m < 7; m++ {
			e += dpE[m] * s.k[m][j]
		}
		e *= h
		sc := s.cfg.AbsTol + s.cfg.RelTol*math.Max(math.Abs(s.y[j]), math.Abs(s.ynew[j]))
		sum += (e / sc) * (e / sc)
	}
	return math.Sqrt(sum / float64(n))
}
