package impulse

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/potential"
	"github.com/banshee-data/streamkick/internal/testutil"
)

// Ring stream of radius 10 moving at 220, hit at (10, 0, 0).
const (
	rcurv = 10.0
	vp    = 220.0
)

func ringStream(n int) Curved {
	x, v := testutil.RingStream(rcurv, vp, testutil.Linspace(-math.Pi/4, math.Pi/4, n))
	return Curved{V: v, X: x, X0: r3.Vec{X: rcurv}, V0: r3.Vec{Y: vp}}
}

func ringCenter() Curved {
	x0, v0 := r3.Vec{X: rcurv}, r3.Vec{Y: vp}
	return Curved{V: []r3.Vec{v0}, X: []r3.Vec{x0}, X0: x0, V0: v0}
}

func TestOrbitIntegration_ZeroForceMatchesPlummer(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultConfig())
	e := Encounter{B: 3, W: r3.Vec{X: 1, Y: math.Pi / 2}}
	// Five radians of the stream's orbit.
	maxt := 5 * math.Pi / (vp / rcurv)

	tests := []struct {
		name   string
		c      Curved
		gm, rs float64
		tol    float64
	}{
		{"impact point", ringCenter(), 1.5, 4, 1e-6},
		{"arc", ringStream(100), math.Pi, math.E, 1e-5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := PlummerCurved(tt.c, e, tt.gm, tt.rs)
			require.NoError(t, err)
			pot, err := potential.NewPlummer(tt.gm, tt.rs)
			require.NoError(t, err)
			got, err := est.OrbitIntegration(tt.c, e, pot, maxt, potential.Zero{})
			require.NoError(t, err)
			testutil.AssertMatrixNear(t, want, got, tt.tol)
		})
	}
}

func TestOrbitIntegration_Errors(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultConfig())
	pot, err := potential.NewPlummer(1, 1)
	require.NoError(t, err)
	e := Encounter{B: 3, W: r3.Vec{X: 1, Y: 1}}

	_, err = est.OrbitIntegration(ringCenter(), e, pot, 0, potential.Zero{})
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = est.OrbitIntegration(Curved{X0: r3.Vec{X: 1}, V0: r3.Vec{Y: 1}}, e, pot, 1, potential.Zero{})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestFullPlummerIntegration_ZeroForce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full orbit integration in short mode")
	}
	t.Parallel()
	est := NewEstimator(DefaultConfig())
	e := Encounter{B: 3, W: r3.Vec{X: 1, Y: math.Pi / 4 * vp}}

	tests := []struct {
		name   string
		c      Curved
		gm, rs float64
		win    IntegrationWindow
		tol    float64
	}{
		{"impact point", ringCenter(), 1.5, 4, IntegrationWindow{TMaxFactor: 100, N: 1000}, 1e-3},
		{"arc", ringStream(10), math.Pi, math.E, IntegrationWindow{TMaxFactor: 100}, math.Pow(10, -2.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := PlummerCurved(tt.c, e, tt.gm, tt.rs)
			require.NoError(t, err)
			got, err := est.FullPlummerIntegration(tt.c, e, potential.Zero{}, tt.gm, tt.rs, tt.win)
			require.NoError(t, err)
			testutil.AssertMatrixMixed(t, want, got, tt.tol, tt.tol, tt.tol)
		})
	}
}

func TestFullPlummerIntegration_FastEncounter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full orbit integration in short mode")
	}
	t.Parallel()
	est := NewEstimator(DefaultConfig())

	halo, err := potential.NewNormalizedLogarithmicHalo(1, 1)
	require.NoError(t, err)
	pot, err := potential.NewPlummer(1.5, 4)
	require.NoError(t, err)

	// Circular orbit at R = 1.5, perturber much faster than the stream.
	x0, v0 := r3.Vec{X: 1.5}, r3.Vec{Y: 1}
	c := Curved{V: []r3.Vec{v0}, X: []r3.Vec{x0}, X0: x0, V0: v0}
	e := Encounter{B: 3, W: r3.Vec{Z: 100}}

	orbitKick, err := est.OrbitIntegration(c, e, pot, 5*math.Pi, halo)
	require.NoError(t, err)
	fullKick, err := est.FullPlummerIntegration(c, e, halo, 1.5, 4, IntegrationWindow{TMaxFactor: 10, N: 1000})
	require.NoError(t, err)

	o, f := Row(orbitKick, 0), Row(fullKick, 0)
	// The kick is along x.
	assert.Less(t, math.Abs((o.X-f.X)/f.X), 1e-2)
	assert.Less(t, math.Abs(o.Y-f.Y), 1e-2)
	assert.Less(t, math.Abs(o.Z-f.Z), 1e-2)
}

func TestFullPlummerIntegration_Errors(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultConfig())
	c := ringCenter()

	_, err := est.FullPlummerIntegration(c, Encounter{B: 3, W: r3.Vec{X: 1}}, potential.Zero{}, 1, -1, IntegrationWindow{})
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = est.FullPlummerIntegration(c, Encounter{B: 3, W: r3.Vec{Y: 2 * vp}}, potential.Zero{}, 1, 1, IntegrationWindow{})
	assert.Error(t, err)
}

func TestEncounterBreaks(t *testing.T) {
	t.Parallel()
	// Star trails the perturber by 2 along the relative motion, 0.5 off its track.
	d := r3.Vec{X: -2, Y: 0.5}
	u := r3.Vec{X: 4}
	breaks := encounterBreaks(d, u, -10, 10)

	require.NotEmpty(t, breaks)
	assert.True(t, sort.Float64sAreSorted(breaks))
	assert.Contains(t, breaks, 0.5)
	for _, b := range breaks {
		assert.Greater(t, b, -10.0)
		assert.Less(t, b, 10.0)
	}
	// Finest spacing is the crossing time 0.5/4.
	assert.Contains(t, breaks, 0.5+0.125)
	assert.Contains(t, breaks, 0.5-0.125)

	assert.Nil(t, encounterBreaks(d, r3.Vec{}, -1, 1))
}
