package coords

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRzToLambdaNu_MidplaneMatchesGeneralForm(t *testing.T) {
	t.Parallel()
	const ac, delta = 5.0, 1.0
	alpha, gamma := SpheroidalParams(ac, delta)

	for _, R := range []float64{0.3, 1, 2.5, 7} {
		lambda, nu := RzToLambdaNu(R, 0, ac, delta)
		assert.Equal(t, R*R-alpha, lambda)
		assert.Equal(t, -gamma, nu)

		// Just off the plane the general expression must agree.
		l2, n2 := RzToLambdaNu(R, 1e-9, ac, delta)
		assert.InDelta(t, lambda, l2, 1e-8)
		assert.InDelta(t, nu, n2, 1e-8)
	}
}

func TestLambdaNu_RoundTrip(t *testing.T) {
	t.Parallel()
	const ac, delta = 5.0, 1.3
	tests := []struct{ R, z float64 }{
		{1, 0.5}, {0.2, -2}, {3, 3}, {8, 0.01}, {0.5, -0.25},
	}
	for _, tt := range tests {
		lambda, nu := RzToLambdaNu(tt.R, tt.z, ac, delta)
		R, z := LambdaNuToRz(lambda, nu, ac, delta, tt.z)
		assert.InDelta(t, tt.R, R, 1e-9)
		assert.InDelta(t, tt.z, z, 1e-9)
	}
}

func TestLambdaNuJacobian_FiniteDifference(t *testing.T) {
	t.Parallel()
	const ac, delta = 5.0, 1.0
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}

	for _, p := range [][2]float64{{1.1, 0.4}, {0.4, -1.2}, {3, 2}} {
		R, z := p[0], p[1]
		jac := LambdaNuJacobian(R, z, delta)

		lR := fd.Derivative(func(x float64) float64 { l, _ := RzToLambdaNu(x, z, ac, delta); return l }, R, settings)
		nR := fd.Derivative(func(x float64) float64 { _, n := RzToLambdaNu(x, z, ac, delta); return n }, R, settings)
		lz := fd.Derivative(func(x float64) float64 { l, _ := RzToLambdaNu(R, x, ac, delta); return l }, z, settings)
		nz := fd.Derivative(func(x float64) float64 { _, n := RzToLambdaNu(R, x, ac, delta); return n }, z, settings)

		assert.InDelta(t, lR, jac.DLambdaDR, 1e-6)
		assert.InDelta(t, nR, jac.DNuDR, 1e-6)
		assert.InDelta(t, lz, jac.DLambdaDz, 1e-6)
		assert.InDelta(t, nz, jac.DNuDz, 1e-6)
	}
}

func TestLambdaNuHessian_FiniteDifference(t *testing.T) {
	t.Parallel()
	const delta = 1.0
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-5}

	for _, p := range [][2]float64{{1.1, 0.4}, {0.4, -1.2}, {3, 2}} {
		R, z := p[0], p[1]
		h := LambdaNuHessian(R, z, delta)

		lRR := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(x, z, delta).DLambdaDR }, R, settings)
		nRR := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(x, z, delta).DNuDR }, R, settings)
		lzz := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(R, x, delta).DLambdaDz }, z, settings)
		nzz := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(R, x, delta).DNuDz }, z, settings)
		lRz := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(R, x, delta).DLambdaDR }, z, settings)
		nRz := fd.Derivative(func(x float64) float64 { return LambdaNuJacobian(R, x, delta).DNuDR }, z, settings)

		assert.InDelta(t, lRR, h.D2LambdaDR2, 1e-6)
		assert.InDelta(t, nRR, h.D2NuDR2, 1e-6)
		assert.InDelta(t, lzz, h.D2LambdaDz2, 1e-6)
		assert.InDelta(t, nzz, h.D2NuDz2, 1e-6)
		assert.InDelta(t, lRz, h.D2LambdaDRDz, 1e-6)
		assert.InDelta(t, nRz, h.D2NuDRDz, 1e-6)
	}
}

func TestCylindricalRoundTrip(t *testing.T) {
	t.Parallel()
	p := r3.Vec{X: -1.5, Y: 2.5, Z: 0.3}
	R, phi, z := RectToCyl(p)
	require.InDelta(t, math.Hypot(1.5, 2.5), R, 1e-14)

	back := CylToRect(R, phi, z)
	assert.InDelta(t, p.X, back.X, 1e-14)
	assert.InDelta(t, p.Y, back.Y, 1e-14)
	assert.Equal(t, p.Z, back.Z)

	v := r3.Vec{X: 0.2, Y: -0.7, Z: 1.1}
	vR, vT, vz := RectVecToCyl(v, phi)
	vb := CylVecToRect(vR, vT, vz, phi)
	assert.InDelta(t, v.X, vb.X, 1e-14)
	assert.InDelta(t, v.Y, vb.Y, 1e-14)
	assert.Equal(t, v.Z, vb.Z)
}
