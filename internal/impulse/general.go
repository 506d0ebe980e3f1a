package impulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/streamkick/internal/numeric"
	"github.com/banshee-data/streamkick/internal/potential"
)

// generalProfile integrates the transverse force of a spherical perturber
// along a straight relative track with impact parameter B:
//
//	dv = (1/W) int -F_R(sqrt(B^2+s^2), 0) B/sqrt(B^2+s^2) ds
//
// over the path length s from closest approach. A nil window covers the whole
// track; otherwise s runs from W (TMin - tc) to W (TMax - tc).
func (est *Estimator) generalProfile(pot potential.Potential, win *Window) profile {
	return func(B, W, tc float64) (float64, error) {
		cfg := est.cfg.Quad
		cfg.Scale = B
		lo, hi, factor := 0.0, math.Inf(1), 2.0
		if win != nil {
			lo, hi, factor = W*(win.TMin-tc), W*(win.TMax-tc), 1
		}
		integral, err := numeric.IntegrateVec(func(s float64, dst []float64) {
			r := math.Hypot(B, s)
			dst[0] = -pot.RForce(r, 0, 0, 0) * B / r
		}, 1, lo, hi, []float64{0}, cfg)
		if err != nil {
			return 0, fmt.Errorf("impulse integral at B=%g: %w", B, err)
		}
		return factor * integral[0] / W, nil
	}
}

func validateGeneralWindow(win *Window) error {
	if win == nil {
		return nil
	}
	if math.IsNaN(win.TMin) || math.IsNaN(win.TMax) || win.TMin >= win.TMax {
		return fmt.Errorf("%w: window [%g, %g]", ErrInvalidParameter, win.TMin, win.TMax)
	}
	return nil
}

// General returns the kicks on a straight stream from a spherical perturber
// described by pot. The perturber's radial force is evaluated in its midplane.
// win limits the passage to times measured from the perturber crossing the
// impact point; nil integrates over the whole track. Either bound may be
// infinite.
func (est *Estimator) General(s Straight, e Encounter, pot potential.Potential, win *Window) (*mat.Dense, error) {
	if err := validateGeneralWindow(win); err != nil {
		return nil, err
	}
	return straightKicks(s, e, est.generalProfile(pot, win))
}

// GeneralCurved is General for a curved stream. Times in win count from the
// perturber passing X0 - b0.
func (est *Estimator) GeneralCurved(c Curved, e Encounter, pot potential.Potential, win *Window) (*mat.Dense, error) {
	if err := validateGeneralWindow(win); err != nil {
		return nil, err
	}
	return curvedKicks(c, e, est.generalProfile(pot, win))
}
