package sweep

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/impulse"
	"github.com/banshee-data/streamkick/internal/monitoring"
	"github.com/banshee-data/streamkick/internal/potential"
	"github.com/banshee-data/streamkick/internal/units"
)

var logf = monitoring.Component("sweep")

// Estimator names accepted by Run.
const (
	EstimatorPlummer          = "plummer"
	EstimatorHernquist        = "hernquist"
	EstimatorGeneralPlummer   = "general-plummer"
	EstimatorGeneralHernquist = "general-hernquist"
	EstimatorPlummerStream    = "plummerstream"
)

// Estimators lists the valid estimator names.
var Estimators = []string{
	EstimatorPlummer,
	EstimatorHernquist,
	EstimatorGeneralPlummer,
	EstimatorGeneralHernquist,
	EstimatorPlummerStream,
}

// StreamWindowFraction sets the length of the perturber stream used by the
// plummerstream estimator: dt = StreamWindowFraction rs/|w|.
const StreamWindowFraction = 0.01

// Params describes a sweep in physical units.
type Params struct {
	Estimator string
	// N is the number of stars, spread evenly in angle over half the stream's
	// circle centred on the impact point.
	N int
	// RO (kpc) and VO (km/s) define the natural units.
	RO, VO float64

	MassMsun  float64
	RsKpc     float64
	ImpactKpc []float64
	// WKms is the perturber velocity in the stream frame (stream along y).
	WKms r3.Vec

	StreamRKpc float64
	StreamVKms float64

	// Units selects the output speed units (see package units).
	Units string
}

// DefaultParams returns the set-up of a 10^8 Msun subhalo crossing a stream
// of radius 10 kpc.
func DefaultParams() Params {
	return Params{
		Estimator:  EstimatorPlummer,
		N:          201,
		RO:         8,
		VO:         220,
		MassMsun:   1e8,
		RsKpc:      0.625,
		ImpactKpc:  []float64{0, 0.3125, 0.625, 1.25},
		WKms:       r3.Vec{Y: 132, Z: 176},
		StreamRKpc: 10,
		StreamVKms: 220,
		Units:      units.KMS,
	}
}

// Validate checks the sweep parameters.
func (p Params) Validate() error {
	if !isEstimator(p.Estimator) {
		return fmt.Errorf("unknown estimator %q", p.Estimator)
	}
	if p.N < 1 {
		return fmt.Errorf("n must be positive, got %d", p.N)
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"ro", p.RO}, {"vo", p.VO}, {"mass", p.MassMsun}, {"rs", p.RsKpc},
		{"stream-r", p.StreamRKpc}, {"stream-v", p.StreamVKms},
	} {
		if !(c.v > 0) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g", c.name, c.v)
		}
	}
	if len(p.ImpactKpc) == 0 {
		return fmt.Errorf("at least one impact parameter is required")
	}
	if floats.HasNaN(p.ImpactKpc) {
		return fmt.Errorf("impact parameters must not be NaN")
	}
	if r3.Norm(p.WKms) == 0 {
		return fmt.Errorf("perturber velocity must be non-zero")
	}
	if !units.IsValid(p.Units) {
		return fmt.Errorf("invalid units %q, valid: %s", p.Units, units.GetValidUnitsString())
	}
	return nil
}

func isEstimator(name string) bool {
	for _, e := range Estimators {
		if e == name {
			return true
		}
	}
	return false
}

// Profile is the kick along the stream for one impact parameter.
type Profile struct {
	// B is the impact parameter in kpc.
	B float64
	// Kicks is N×3, in the sweep's output units.
	Kicks *mat.Dense
}

// Result holds a completed sweep.
type Result struct {
	Params Params
	// Phi is the angle along the stream of each star, Y its distance from
	// the impact point in kpc.
	Phi []float64
	Y   []float64

	Profiles []Profile
}

// Run computes the kick profile for each impact parameter. Run stops between
// impact parameters if ctx is cancelled.
func Run(ctx context.Context, est *impulse.Estimator, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	phi := make([]float64, p.N)
	if p.N > 1 {
		floats.Span(phi, -math.Pi/2, math.Pi/2)
	}
	ys := make([]float64, p.N)
	yKpc := make([]float64, p.N)
	for i, a := range phi {
		yKpc[i] = p.StreamRKpc * a
		ys[i] = yKpc[i] / p.RO
	}
	s := impulse.Straight{V: []r3.Vec{{Y: p.StreamVKms / p.VO}}, Y: ys}

	gm := units.MassToNatural(p.MassMsun, p.VO, p.RO)
	rs := p.RsKpc / p.RO
	w := r3.Scale(1/p.VO, p.WKms)

	kick, err := kicker(est, p.Estimator, gm, rs, r3.Norm(w))
	if err != nil {
		return nil, err
	}

	res := &Result{Params: p, Phi: phi, Y: yKpc}
	for _, bKpc := range p.ImpactKpc {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logf("%s: b = %g kpc, %d stars", p.Estimator, bKpc, p.N)
		kicks, err := kick(s, impulse.Encounter{B: bKpc / p.RO, W: w})
		if err != nil {
			return nil, fmt.Errorf("b = %g kpc: %w", bKpc, err)
		}
		kicks.Apply(func(_, _ int, v float64) float64 {
			return units.ConvertSpeed(v, p.VO, p.Units)
		}, kicks)
		res.Profiles = append(res.Profiles, Profile{B: bKpc, Kicks: kicks})
	}
	return res, nil
}

type kickFunc func(impulse.Straight, impulse.Encounter) (*mat.Dense, error)

// kicker binds the named estimator to a perturber of mass gm and scale rs.
func kicker(est *impulse.Estimator, name string, gm, rs, wmag float64) (kickFunc, error) {
	switch name {
	case EstimatorPlummer:
		return func(s impulse.Straight, e impulse.Encounter) (*mat.Dense, error) {
			return impulse.Plummer(s, e, gm, rs)
		}, nil
	case EstimatorHernquist:
		return func(s impulse.Straight, e impulse.Encounter) (*mat.Dense, error) {
			return impulse.Hernquist(s, e, gm, rs)
		}, nil
	case EstimatorGeneralPlummer, EstimatorGeneralHernquist:
		var pot potential.Potential
		var err error
		if name == EstimatorGeneralPlummer {
			pot, err = potential.NewPlummer(gm, rs)
		} else {
			// Hernquist amplitudes are 2 GM.
			pot, err = potential.NewHernquist(2*gm, rs)
		}
		if err != nil {
			return nil, err
		}
		return func(s impulse.Straight, e impulse.Encounter) (*mat.Dense, error) {
			return est.General(s, e, pot, nil)
		}, nil
	case EstimatorPlummerStream:
		dt := StreamWindowFraction * rs / wmag
		win := &impulse.Window{TMin: -dt / 2, TMax: dt / 2}
		gsigma := func(float64) float64 { return gm / dt }
		return func(s impulse.Straight, e impulse.Encounter) (*mat.Dense, error) {
			return est.PlummerStream(s, e, gsigma, rs, win)
		}, nil
	}
	return nil, fmt.Errorf("unknown estimator %q", name)
}

// Magnitudes returns the length of each kick in m.
func Magnitudes(m mat.Matrix) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = r3.Norm(impulse.Row(m, i))
	}
	return out
}
