package impulse

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/geom"
	"github.com/banshee-data/streamkick/internal/testutil"
)

// perpendicular is the encounter of Binney & Tremaine example 8.7 in the
// frame used by the curved-stream comparisons: stars move along x at 3.4 and
// the perturber crosses along y.
var perpendicular = Encounter{B: 3, W: r3.Vec{Y: math.Pi / 2}}

// xStream returns n stars with velocity (3.4, 0, 0) at normally distributed
// positions along x, both as a straight and as a curved stream through the
// origin.
func xStream(n int, seed int64) (Straight, Curved) {
	rng := rand.New(rand.NewSource(seed))
	v := r3.Vec{X: 3.4}
	s := Straight{V: []r3.Vec{v}, Y: make([]float64, n)}
	c := Curved{V: []r3.Vec{v}, X: make([]r3.Vec, n), V0: v}
	for i := 0; i < n; i++ {
		s.Y[i] = rng.NormFloat64()
		c.X[i] = r3.Vec{X: s.Y[i]}
	}
	return s, c
}

func TestBatchShapes(t *testing.T) {
	t.Parallel()
	vs := []r3.Vec{{Y: 1}, {Y: 2}, {Y: 3}}

	tests := []struct {
		name    string
		s       Straight
		want    int
		wantErr bool
	}{
		{"equal lengths", Straight{V: vs, Y: []float64{0, 1, 2}}, 3, false},
		{"broadcast velocity", Straight{V: vs[:1], Y: []float64{0, 1, 2, 3}}, 4, false},
		{"broadcast position", Straight{V: vs, Y: []float64{0}}, 3, false},
		{"mismatch", Straight{V: vs, Y: []float64{0, 1}}, 0, true},
		{"empty velocities", Straight{Y: []float64{0}}, 0, true},
		{"empty positions", Straight{V: vs}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.s.size()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrShape), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}

	c := Curved{V: vs, X: vs, T: []float64{0, 1}}
	_, err := c.size()
	assert.True(t, errors.Is(err, ErrShape))
	c.T = []float64{0.5}
	n, err := c.size()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, _, t2 := c.at(2)
	assert.Equal(t, 0.5, t2)
}

func TestKicksRejectBadShapes(t *testing.T) {
	t.Parallel()
	s := Straight{V: []r3.Vec{{Y: 1}, {Y: 2}}, Y: []float64{0, 1, 2}}
	_, err := Plummer(s, perpendicular, 1, 1)
	assert.True(t, errors.Is(err, ErrShape))

	_, err = Hernquist(Straight{}, perpendicular, 1, 1)
	assert.True(t, errors.Is(err, ErrShape))

	c := Curved{V: []r3.Vec{{X: 1}}, X: nil, V0: r3.Vec{X: 1}}
	_, err = PlummerCurved(c, perpendicular, 1, 1)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestWindowValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		w    *Window
		ok   bool
	}{
		{"nil", nil, false},
		{"finite", &Window{TMin: -1, TMax: 1}, true},
		{"one-sided", &Window{TMin: 0, TMax: 2}, true},
		{"infinite", &Window{TMin: math.Inf(-1), TMax: math.Inf(1)}, false},
		{"nan", &Window{TMin: math.NaN(), TMax: 1}, false},
		{"empty", &Window{TMin: 1, TMax: 1}, false},
		{"reversed", &Window{TMin: 1, TMax: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrMissingBounds), "got %v", err)
			}
		})
	}
}

func TestKickNamesFailingStar(t *testing.T) {
	t.Parallel()
	// The second star moves with the perturber.
	w := r3.Vec{Y: 2}
	s := Straight{V: []r3.Vec{{Y: 1}, {Y: 2}}, Y: []float64{0}}
	_, err := Plummer(s, Encounter{B: 1, W: w}, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geom.ErrZeroRelativeVelocity))
	assert.Contains(t, err.Error(), "star 1")
}

func TestRow(t *testing.T) {
	t.Parallel()
	_, c := xStream(3, 1)
	kicks, err := PlummerCurved(c, perpendicular, 1.5, 4)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		r := Row(kicks, i)
		testutil.AssertVecNear(t, r3.Vec{X: kicks.At(i, 0), Y: kicks.At(i, 1), Z: kicks.At(i, 2)}, r, 0)
	}
}
