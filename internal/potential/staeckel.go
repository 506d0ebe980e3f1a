package potential

import (
	"fmt"
	"math"

	"github.com/banshee-data/streamkick/internal/coords"
)

// KuzminKutuzovStaeckel is the Kuzmin–Kutuzov Staeckel potential (Batsleer &
// Dejonghe 1994), written in prolate spheroidal coordinates as
//
//	Phi = -amp / (sqrt(lambda) + sqrt(nu))
//
// for a coordinate system with axis ratio Ac and focal distance Delta. The
// potential is singular where lambda or nu vanish.
type KuzminKutuzovStaeckel struct {
	Amp   float64
	Ac    float64
	Delta float64
}

// NewKuzminKutuzovStaeckel validates the coordinate parameters. Ac must not be
// 1 (the coordinate system degenerates).
func NewKuzminKutuzovStaeckel(amp, ac, delta float64) (*KuzminKutuzovStaeckel, error) {
	if ac <= 0 || ac == 1 {
		return nil, fmt.Errorf("staeckel axis ratio: %w and != 1: got %g", ErrNonPositiveParameter, ac)
	}
	if delta <= 0 {
		return nil, fmt.Errorf("staeckel focal distance: %w: got %g", ErrNonPositiveParameter, delta)
	}
	return &KuzminKutuzovStaeckel{Amp: amp, Ac: ac, Delta: delta}, nil
}

func (s *KuzminKutuzovStaeckel) lambdaNu(R, z float64) (float64, float64) {
	return coords.RzToLambdaNu(R, z, s.Ac, s.Delta)
}

func (s *KuzminKutuzovStaeckel) Evaluate(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	return -s.Amp / (math.Sqrt(l) + math.Sqrt(n))
}

// first returns dPhi/dlambda and dPhi/dnu per unit amplitude.
func (s *KuzminKutuzovStaeckel) first(l, n float64) (dl, dn float64) {
	sl, sn := math.Sqrt(l), math.Sqrt(n)
	den := (sl + sn) * (sl + sn)
	return 0.5 / sl / den, 0.5 / sn / den
}

func (s *KuzminKutuzovStaeckel) RForce(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	jac := coords.LambdaNuJacobian(R, z, s.Delta)
	dl, dn := s.first(l, n)
	return -s.Amp * (jac.DLambdaDR*dl + jac.DNuDR*dn)
}

func (s *KuzminKutuzovStaeckel) ZForce(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	jac := coords.LambdaNuJacobian(R, z, s.Delta)
	dl, dn := s.first(l, n)
	return -s.Amp * (jac.DLambdaDz*dl + jac.DNuDz*dn)
}

// second returns d2Phi/dlambda2, d2Phi/dnu2 and d2Phi/dlambda dnu per unit
// amplitude.
func (s *KuzminKutuzovStaeckel) second(l, n float64) (ll, nn, ln float64) {
	sl, sn := math.Sqrt(l), math.Sqrt(n)
	sum3 := (sl + sn) * (sl + sn) * (sl + sn)
	ll = (-3*sl - sn) / (4 * l * sl * sum3)
	nn = (-sl - 3*sn) / (4 * n * sn * sum3)
	ln = -0.5 / (sl * sn * sum3)
	return ll, nn, ln
}

func (s *KuzminKutuzovStaeckel) R2Deriv(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	jac := coords.LambdaNuJacobian(R, z, s.Delta)
	hess := coords.LambdaNuHessian(R, z, s.Delta)
	dl, dn := s.first(l, n)
	ll, nn, ln := s.second(l, n)
	return s.Amp * (hess.D2LambdaDR2*dl + hess.D2NuDR2*dn +
		jac.DLambdaDR*jac.DLambdaDR*ll + jac.DNuDR*jac.DNuDR*nn +
		2*jac.DLambdaDR*jac.DNuDR*ln)
}

func (s *KuzminKutuzovStaeckel) Z2Deriv(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	jac := coords.LambdaNuJacobian(R, z, s.Delta)
	hess := coords.LambdaNuHessian(R, z, s.Delta)
	dl, dn := s.first(l, n)
	ll, nn, ln := s.second(l, n)
	return s.Amp * (hess.D2LambdaDz2*dl + hess.D2NuDz2*dn +
		jac.DLambdaDz*jac.DLambdaDz*ll + jac.DNuDz*jac.DNuDz*nn +
		2*jac.DLambdaDz*jac.DNuDz*ln)
}

func (s *KuzminKutuzovStaeckel) RZDeriv(R, z, phi, t float64) float64 {
	l, n := s.lambdaNu(R, z)
	jac := coords.LambdaNuJacobian(R, z, s.Delta)
	hess := coords.LambdaNuHessian(R, z, s.Delta)
	dl, dn := s.first(l, n)
	ll, nn, ln := s.second(l, n)
	return s.Amp * (hess.D2LambdaDRDz*dl + hess.D2NuDRDz*dn +
		jac.DLambdaDR*jac.DLambdaDz*ll + jac.DNuDR*jac.DNuDz*nn +
		(jac.DLambdaDR*jac.DNuDz+jac.DNuDR*jac.DLambdaDz)*ln)
}

func (s *KuzminKutuzovStaeckel) Amplitude() float64       { return s.Amp }
func (s *KuzminKutuzovStaeckel) SetAmplitude(amp float64) { s.Amp = amp }
