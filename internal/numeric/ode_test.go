package numeric

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func harmonic(omega float64) System {
	return func(_ float64, y, dydt []float64) {
		dydt[0] = y[1]
		dydt[1] = -omega * omega * y[0]
	}
}

func TestSolve_HarmonicOscillator(t *testing.T) {
	t.Parallel()
	const omega = 2.0
	ts := floats.Span(make([]float64, 41), 0, 10)

	out, err := Solve(harmonic(omega), []float64{1, 0}, ts, DefaultODEConfig())
	require.NoError(t, err)
	require.Len(t, out, len(ts))

	got := make([]float64, len(ts))
	want := make([]float64, len(ts))
	for i, tt := range ts {
		got[i] = out[i][0]
		want[i] = math.Cos(omega * tt)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_Backward(t *testing.T) {
	t.Parallel()
	const omega = 1.0
	ts := []float64{0, -0.5, -1, -math.Pi}

	out, err := Solve(harmonic(omega), []float64{0, 1}, ts, DefaultODEConfig())
	require.NoError(t, err)
	for i, tt := range ts {
		assert.InDelta(t, math.Sin(omega*tt), out[i][0], 1e-9)
		assert.InDelta(t, math.Cos(omega*tt), out[i][1], 1e-9)
	}
}

func TestSolve_MaxStepRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := DefaultODEConfig()
	cfg.MaxStep = 1e-2
	f := harmonic(3)

	fwd, err := Solve(f, []float64{0.3, -0.2}, []float64{0, 2}, cfg)
	require.NoError(t, err)
	back, err := Solve(f, fwd[1], []float64{2, 0}, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, back[1][0], 1e-9)
	assert.InDelta(t, -0.2, back[1][1], 1e-9)
}

func TestSolve_Errors(t *testing.T) {
	t.Parallel()

	_, err := Solve(harmonic(1), []float64{1, 0}, []float64{0, 1, 0.5}, DefaultODEConfig())
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	cfg := DefaultODEConfig()
	cfg.MaxSteps = 5
	cfg.MaxStep = 1e-3
	_, err = Solve(harmonic(1), []float64{1, 0}, []float64{0, 1}, cfg)
	assert.True(t, errors.Is(err, ErrNoConvergence), "got %v", err)

	out, err := Solve(harmonic(1), []float64{1, 0}, nil, cfg)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
