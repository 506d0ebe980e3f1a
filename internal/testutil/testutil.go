// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the numeric comparisons and stream fixtures used
// by the estimator tests so that tolerances are applied the same way
// everywhere.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertVecNear checks that every component of got is within tol of want.
func AssertVecNear(t testing.TB, want, got r3.Vec, tol float64) {
	t.Helper()
	if d := r3.Sub(got, want); math.Abs(d.X) > tol || math.Abs(d.Y) > tol || math.Abs(d.Z) > tol || hasNaN(got) {
		t.Errorf("vector = %v, want %v (tol %g)", got, want, tol)
	}
}

// AssertMatrixNear checks that got and want have the same shape and that
// every element differs by less than tol.
func AssertMatrixNear(t testing.TB, want, got mat.Matrix, tol float64) {
	t.Helper()
	AssertMatrixMixed(t, want, got, 0, math.Inf(1), tol)
}

// AssertMatrixMixed compares element-wise: where |want| >= floor the relative
// error must be below rel, elsewhere the absolute error must be below abs.
func AssertMatrixMixed(t testing.TB, want, got mat.Matrix, rel, floor, abs float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("dims = %dx%d, want %dx%d", gr, gc, wr, wc)
		return
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			w, g := want.At(i, j), got.At(i, j)
			switch {
			case math.IsNaN(g):
				t.Errorf("[%d,%d] = NaN, want %g", i, j, w)
			case math.Abs(w) >= floor && math.Abs((g-w)/w) >= rel:
				t.Errorf("[%d,%d] = %g, want %g (rel err %.3g >= %g)", i, j, g, w, math.Abs((g-w)/w), rel)
			case math.Abs(w) < floor && math.Abs(g-w) >= abs:
				t.Errorf("[%d,%d] = %g, want %g (abs err %.3g >= %g)", i, j, g, w, math.Abs(g-w), abs)
			}
		}
	}
}

func hasNaN(v r3.Vec) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// RingStream returns stars on a circular stream of radius rcurv in the z = 0
// plane, moving counter-clockwise at speed vp, at the given azimuths.
func RingStream(rcurv, vp float64, thetas []float64) (x, v []r3.Vec) {
	x = make([]r3.Vec, len(thetas))
	v = make([]r3.Vec, len(thetas))
	for i, th := range thetas {
		s, c := math.Sincos(th)
		x[i] = r3.Vec{X: rcurv * c, Y: rcurv * s}
		v[i] = r3.Vec{X: -vp * s, Y: vp * c}
	}
	return x, v
}
