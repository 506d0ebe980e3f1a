package potential

import (
	"fmt"
	"math"
)

// DefaultLogCore is the core radius used by NewLogarithmicHalo.
const DefaultLogCore = 1e-8

// LogarithmicHalo is the flattened logarithmic potential
//
//	Phi = amp/2 * ln(R^2 + (z/q)^2 + core^2)
//
// whose circular velocity is flat at sqrt(amp) far outside the core.
type LogarithmicHalo struct {
	Amp  float64
	Q    float64
	Core float64
}

// NewLogarithmicHalo returns a unit-amplitude halo with axis ratio q and the
// default core. Call Normalize to set the rotation curve.
func NewLogarithmicHalo(q float64) (*LogarithmicHalo, error) {
	if q <= 0 {
		return nil, fmt.Errorf("logarithmic halo flattening: %w: got %g", ErrNonPositiveParameter, q)
	}
	return &LogarithmicHalo{Amp: 1, Q: q, Core: DefaultLogCore}, nil
}

// NewNormalizedLogarithmicHalo returns a halo with vc(1, 0) = sqrt(norm).
func NewNormalizedLogarithmicHalo(q, norm float64) (*LogarithmicHalo, error) {
	lp, err := NewLogarithmicHalo(q)
	if err != nil {
		return nil, err
	}
	if err := Normalize(lp, norm); err != nil {
		return nil, err
	}
	return lp, nil
}

func (l *LogarithmicHalo) m2(R, z float64) float64 {
	zq := z / l.Q
	return R*R + zq*zq + l.Core*l.Core
}

func (l *LogarithmicHalo) Evaluate(R, z, phi, t float64) float64 {
	return 0.5 * l.Amp * math.Log(l.m2(R, z))
}

func (l *LogarithmicHalo) RForce(R, z, phi, t float64) float64 {
	return -l.Amp * R / l.m2(R, z)
}

func (l *LogarithmicHalo) ZForce(R, z, phi, t float64) float64 {
	return -l.Amp * z / (l.Q * l.Q) / l.m2(R, z)
}

func (l *LogarithmicHalo) Amplitude() float64       { return l.Amp }
func (l *LogarithmicHalo) SetAmplitude(amp float64) { l.Amp = amp }
