package impulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/geom"
)

// straightKicks evaluates prof for every star of a straight stream.
func straightKicks(s Straight, e Encounter, prof profile) (*mat.Dense, error) {
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
		dv, err := straightKick(f, e.B, y, prof)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, f.ToInput(dv))
	}
	return out, nil
}

// curvedKicks evaluates prof for every star of a curved stream.
func curvedKicks(c Curved, e Encounter, prof profile) (*mat.Dense, error) {
	n, err := c.size()
	if err != nil {
		return nil, err
	}
	b0, err := geom.ImpactOffset(e.W, c.V0, e.B)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v, x, _ := c.at(i)
		d, wmag, err := geom.CurvedSeparation(x, v, c.X0, b0, e.W)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		tc := geom.ClosestApproachTime(r3.Sub(r3.Sub(c.X0, b0), x), r3.Sub(e.W, v))
		dv, err := kickAlong(d, wmag, tc, prof)
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", i, err)
		}
		setRow(out, i, dv)
	}
	return out, nil
}

func plummerProfile(gm, rs float64) profile {
	return func(B, W, _ float64) (float64, error) {
		return 2 * gm * B / (W * (B*B + rs*rs)), nil
	}
}

func hernquistProfile(gm, a float64) profile {
	return func(B, W, _ float64) (float64, error) {
		g, err := hernquistG(B / a)
		if err != nil {
			return 0, err
		}
		return 2 * gm * B * g / (W * a * a), nil
	}
}

func checkScale(name string, v float64, allowZero bool) error {
	if v < 0 || (!allowZero && v == 0) || math.IsNaN(v) {
		return fmt.Errorf("%w: %s = %g", ErrInvalidParameter, name, v)
	}
	return nil
}

// Plummer returns the kicks from a Plummer sphere of mass gm and scale radius
// rs on a straight stream. For a star at the impact point the kick has the
// Binney & Tremaine (8.152) magnitude 2 gm b / (W (b^2 + rs^2)).
func Plummer(s Straight, e Encounter, gm, rs float64) (*mat.Dense, error) {
	if err := checkScale("rs", rs, true); err != nil {
		return nil, err
	}
	return straightKicks(s, e, plummerProfile(gm, rs))
}

// PlummerCurved returns the Plummer kicks on a curved stream. It equals
// Plummer for stars on a straight track through X0 moving with V0.
func PlummerCurved(c Curved, e Encounter, gm, rs float64) (*mat.Dense, error) {
	if err := checkScale("rs", rs, true); err != nil {
		return nil, err
	}
	return curvedKicks(c, e, plummerProfile(gm, rs))
}

// Hernquist returns the kicks from a Hernquist sphere of mass gm and scale a
// on a straight stream.
func Hernquist(s Straight, e Encounter, gm, a float64) (*mat.Dense, error) {
	if err := checkScale("a", a, false); err != nil {
		return nil, err
	}
	return straightKicks(s, e, hernquistProfile(gm, a))
}

// HernquistCurved returns the Hernquist kicks on a curved stream.
func HernquistCurved(c Curved, e Encounter, gm, a float64) (*mat.Dense, error) {
	if err := checkScale("a", a, false); err != nil {
		return nil, err
	}
	return curvedKicks(c, e, hernquistProfile(gm, a))
}

// HernquistX is the auxiliary function of the projected Hernquist profile:
//
//	X(s) = ln((1 + sqrt(1-s^2))/s) / sqrt(1-s^2)   s < 1
//	X(s) = 1                                        s = 1
//	X(s) = acos(1/s) / sqrt(s^2-1)                  s > 1
func HernquistX(s float64) (float64, error) {
	switch {
	case s < 0 || math.IsNaN(s):
		return 0, fmt.Errorf("%w: HernquistX(%g)", ErrNegativeArgument, s)
	case s < 1:
		q := math.Sqrt(1 - s*s)
		return math.Log((1+q)/s) / q, nil
	case s == 1:
		return 1, nil
	}
	return math.Acos(1/s) / math.Sqrt(s*s-1), nil
}

// hernquistSeriesCut is the value of t = sqrt(|1-s^2|) below which
// hernquistG switches to its series.
const hernquistSeriesCut = 0.1

// hernquistG returns (1 - X(s))/(s^2 - 1), the projected-mass factor of the
// Hernquist kick: the mass within projected radius s a is M s^2 g(s). Near
// s = 1 both numerator and denominator vanish, so the series in t is used.
func hernquistG(s float64) (float64, error) {
	if s < 0 || math.IsNaN(s) {
		return 0, fmt.Errorf("%w: projected radius %g", ErrNegativeArgument, s)
	}
	t2 := math.Abs(1 - s*s)
	t := math.Sqrt(t2)
	if t < hernquistSeriesCut {
		// s < 1: (atanh t - t)/t^3 = sum t^(2k)/(2k+3)
		// s > 1: (t - atan t)/t^3 = sum (-t^2)^k/(2k+3)
		x := t2
		if s > 1 {
			x = -t2
		}
		var sum, term float64 = 0, 1
		for k := 0; k < 9; k++ {
			sum += term / float64(2*k+3)
			term *= x
		}
		return sum, nil
	}
	if s < 1 {
		return (math.Atanh(t) - t) / (t * t2), nil
	}
	return (t - math.Atan(t)) / (t * t2), nil
}
