package geom

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVecNear(t *testing.T, want, got r3.Vec, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestRotationToY(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		name string
		v    r3.Vec
	}{
		{"aligned", r3.Vec{Y: 2}},
		{"anti-aligned", r3.Vec{Y: -3}},
		{"along x", r3.Vec{X: 1}},
		{"along z", r3.Vec{Z: -0.1}},
		{"oblique", r3.Vec{X: 1, Y: 1, Z: 1}},
		{"random", r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, err := RotationToY(tt.v)
			require.NoError(t, err)
			assertVecNear(t, r3.Vec{Y: r3.Norm(tt.v)}, rot.MulVec(tt.v), 1e-14)
			assert.InDelta(t, 1, rot.Det(), 1e-14)
			// Transpose is the inverse.
			assertVecNear(t, tt.v, rot.MulVecTrans(rot.MulVec(tt.v)), 1e-14)
		})
	}

	rot, err := RotationToY(r3.Vec{Y: 5})
	require.NoError(t, err)
	assert.Equal(t, r3.Eye(), rot)

	_, err = RotationToY(r3.Vec{})
	assert.True(t, errors.Is(err, ErrZeroVelocity))
}

func TestDecompose(t *testing.T) {
	t.Parallel()
	v := r3.Vec{Y: math.Pi}
	w := r3.Vec{X: 1, Y: math.Pi / 2, Z: 2}

	f, err := Decompose(v, w)
	require.NoError(t, err)
	assert.Equal(t, w, f.TildeW)
	assert.InDelta(t, math.Pi/2, f.WPar, 1e-15)
	assert.InDelta(t, math.Sqrt(5), f.WPerp, 1e-15)
	assert.InDelta(t, r3.Norm(r3.Sub(w, v)), f.WMag, 1e-14)
	assertVecNear(t, r3.Sub(w, v), f.Relative(), 1e-15)

	_, err = Decompose(v, v)
	assert.True(t, errors.Is(err, ErrZeroRelativeVelocity))
	_, err = Decompose(r3.Vec{}, w)
	assert.True(t, errors.Is(err, ErrZeroVelocity))
}

func TestSeparation(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		w := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		b, y := rng.Float64()+0.1, 3*rng.NormFloat64()

		f, err := Decompose(v, w)
		require.NoError(t, err)
		d := f.Separation(b, y)

		assert.InDelta(t, 0, r3.Dot(d, f.Relative()), 1e-12, "separation is perpendicular to W")
		want := b*b + f.WPerp*f.WPerp*y*y/(f.WMag*f.WMag)
		assert.InDelta(t, want, r3.Norm2(d), 1e-12*math.Max(1, want))
		// The impact direction is perpendicular to the stream.
		assert.InDelta(t, 0, f.ImpactDirection().Y, 0)
	}
}

func TestImpactDirection_AlongStream(t *testing.T) {
	t.Parallel()
	f, err := Decompose(r3.Vec{Y: math.Pi}, r3.Vec{Y: math.Pi / 2})
	require.NoError(t, err)
	assert.Zero(t, f.WPerp)
	assert.True(t, f.Aligned())
	assert.Equal(t, r3.Vec{X: 1, Z: -1}, f.ImpactDirection())
	// Every star sees the perturber at the same transverse offset.
	for _, y := range []float64{0, 2, -5} {
		assertVecNear(t, r3.Vec{X: 3, Z: -3}, f.Separation(3, y), 1e-15)
	}

	f, err = Decompose(r3.Vec{Y: 1}, r3.Vec{Y: 0.5, Z: 1e-3})
	require.NoError(t, err)
	assert.False(t, f.Aligned())
	assertVecNear(t, r3.Vec{X: 1}, f.ImpactDirection(), 0)
}

func TestClosestApproachTime(t *testing.T) {
	t.Parallel()
	d := r3.Vec{X: 1, Y: -4, Z: 2}
	w := r3.Vec{Y: 2}
	tc := ClosestApproachTime(d, w)
	assert.InDelta(t, 2, tc, 1e-15)
	assertVecNear(t, r3.Vec{X: 1, Z: 2}, r3.Add(d, r3.Scale(tc, w)), 1e-15)

	f, err := Decompose(r3.Vec{Y: 1}, r3.Vec{Y: 0.6, Z: 0.8})
	require.NoError(t, err)
	off := f.Offset(0.3, 0.2)
	tc = ClosestApproachTime(off, f.Relative())
	assertVecNear(t, f.Separation(0.3, 0.2), r3.Add(off, r3.Scale(tc, f.Relative())), 1e-15)
}

func TestImpactOffsetAndCurvedSeparation(t *testing.T) {
	t.Parallel()
	w := r3.Vec{Y: math.Pi / 2}
	v0 := r3.Vec{X: 3.4}

	b0, err := ImpactOffset(w, v0, 4)
	require.NoError(t, err)
	assertVecNear(t, r3.Vec{Z: -4}, b0, 1e-15)

	// At the point of closest approach the separation is -b0.
	d, wmag, err := CurvedSeparation(r3.Vec{X: 1}, v0, r3.Vec{X: 1}, b0, w)
	require.NoError(t, err)
	assertVecNear(t, r3.Vec{Z: 4}, d, 1e-15)
	assert.InDelta(t, math.Hypot(3.4, math.Pi/2), wmag, 1e-15)

	_, err = ImpactOffset(w, r3.Vec{Y: 2}, 1)
	assert.True(t, errors.Is(err, ErrDegenerateImpact))
	_, _, err = CurvedSeparation(r3.Vec{}, w, r3.Vec{}, b0, w)
	assert.True(t, errors.Is(err, ErrZeroRelativeVelocity))
}
