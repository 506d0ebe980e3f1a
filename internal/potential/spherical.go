package potential

import (
	"fmt"
	"math"
)

// Spherical is implemented by potentials that depend on r only. RadialForce
// returns -dPhi/dr.
type Spherical interface {
	Potential
	RadialForce(r float64) float64
}

func radius(R, z float64) float64 { return math.Hypot(R, z) }

// Plummer is the Plummer sphere Phi = -amp / sqrt(r^2 + b^2); amp is G M.
type Plummer struct {
	Amp float64
	B   float64
}

// NewPlummer returns a Plummer sphere of mass amp and scale radius b.
func NewPlummer(amp, b float64) (*Plummer, error) {
	if b <= 0 {
		return nil, fmt.Errorf("plummer scale radius: %w: got %g", ErrNonPositiveParameter, b)
	}
	return &Plummer{Amp: amp, B: b}, nil
}

func (p *Plummer) Evaluate(R, z, phi, t float64) float64 {
	r := radius(R, z)
	return -p.Amp / math.Sqrt(r*r+p.B*p.B)
}

func (p *Plummer) RadialForce(r float64) float64 {
	return -p.Amp * r / math.Pow(r*r+p.B*p.B, 1.5)
}

func (p *Plummer) RForce(R, z, phi, t float64) float64 {
	return -p.Amp * R / math.Pow(R*R+z*z+p.B*p.B, 1.5)
}

func (p *Plummer) ZForce(R, z, phi, t float64) float64 {
	return -p.Amp * z / math.Pow(R*R+z*z+p.B*p.B, 1.5)
}

func (p *Plummer) Amplitude() float64       { return p.Amp }
func (p *Plummer) SetAmplitude(amp float64) { p.Amp = amp }

// Hernquist is Phi = -amp / (2 (r + a)). The amplitude is twice the mass, so a
// perturber of mass GM is built with amp = 2 GM.
type Hernquist struct {
	Amp float64
	A   float64
}

// NewHernquist returns a Hernquist sphere with amplitude amp and scale a.
func NewHernquist(amp, a float64) (*Hernquist, error) {
	if a <= 0 {
		return nil, fmt.Errorf("hernquist scale radius: %w: got %g", ErrNonPositiveParameter, a)
	}
	return &Hernquist{Amp: amp, A: a}, nil
}

func (h *Hernquist) Evaluate(R, z, phi, t float64) float64 {
	return -h.Amp / (2 * (radius(R, z) + h.A))
}

func (h *Hernquist) RadialForce(r float64) float64 {
	return -h.Amp / (2 * (r + h.A) * (r + h.A))
}

func (h *Hernquist) RForce(R, z, phi, t float64) float64 {
	r := radius(R, z)
	if r == 0 {
		return 0
	}
	return h.RadialForce(r) * R / r
}

func (h *Hernquist) ZForce(R, z, phi, t float64) float64 {
	r := radius(R, z)
	if r == 0 {
		return 0
	}
	return h.RadialForce(r) * z / r
}

func (h *Hernquist) Amplitude() float64       { return h.Amp }
func (h *Hernquist) SetAmplitude(amp float64) { h.Amp = amp }
