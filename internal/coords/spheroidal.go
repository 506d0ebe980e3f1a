package coords

import "math"

// SpheroidalParams returns (alpha, gamma) for an axis ratio ac and focal
// distance delta, with gamma = delta^2/(1-ac^2) and alpha = gamma - delta^2.
func SpheroidalParams(ac, delta float64) (alpha, gamma float64) {
	gamma = delta * delta / (1 - ac*ac)
	alpha = gamma - delta*delta
	return alpha, gamma
}

// RzToLambdaNu converts cylindrical (R, z) to prolate spheroidal (lambda, nu)
// for the coordinate system with axis ratio ac and focal distance delta.
func RzToLambdaNu(R, z, ac, delta float64) (lambda, nu float64) {
	alpha, gamma := SpheroidalParams(ac, delta)
	if z == 0 {
		// Exact in the midplane; the general form loses digits to cancellation.
		return R*R - alpha, -gamma
	}
	r2 := R*R + z*z
	d2 := delta * delta
	term := r2 - alpha - gamma
	sq := math.Sqrt((r2-d2)*(r2-d2) + 4*d2*R*R)
	return 0.5 * (term + sq), 0.5 * (term - sq)
}

// LambdaNuToRz inverts RzToLambdaNu, returning R >= 0 and z with the sign
// given by zSign.
func LambdaNuToRz(lambda, nu, ac, delta float64, zSign float64) (R, z float64) {
	alpha, gamma := SpheroidalParams(ac, delta)
	r2 := (lambda + alpha) * (nu + alpha) / (alpha - gamma)
	z2 := (lambda + gamma) * (nu + gamma) / (gamma - alpha)
	R = math.Sqrt(math.Max(r2, 0))
	z = math.Sqrt(math.Max(z2, 0))
	if zSign < 0 {
		z = -z
	}
	return R, z
}

// Jacobian holds the partial derivatives of (lambda, nu) with respect to
// (R, z).
type Jacobian struct {
	DLambdaDR, DLambdaDz float64
	DNuDR, DNuDz         float64
}

// LambdaNuJacobian returns d(lambda, nu)/d(R, z). The Jacobian only depends on
// the focal distance delta.
func LambdaNuJacobian(R, z, delta float64) Jacobian {
	r2 := R*R + z*z
	d2 := delta * delta
	sq := math.Sqrt((r2-d2)*(r2-d2) + 4*d2*R*R)
	return Jacobian{
		DLambdaDR: R * (1 + (r2+d2)/sq),
		DNuDR:     R * (1 - (r2+d2)/sq),
		DLambdaDz: z * (1 + (r2-d2)/sq),
		DNuDz:     z * (1 - (r2-d2)/sq),
	}
}

// Hessian holds the second derivatives of (lambda, nu) with respect to
// (R, z).
type Hessian struct {
	D2LambdaDR2, D2LambdaDz2, D2LambdaDRDz float64
	D2NuDR2, D2NuDz2, D2NuDRDz             float64
}

// LambdaNuHessian returns the second derivatives of (lambda, nu) with respect
// to (R, z).
func LambdaNuHessian(R, z, delta float64) Hessian {
	R2, z2, d2 := R*R, z*z, delta*delta
	discr := (R2+z2-d2)*(R2+z2-d2) + 4*d2*R2
	sq := math.Sqrt(discr)
	sq3 := discr * sq

	aR := (3*R2 + z2 + d2) / sq
	bR := 2 * R2 * (R2 + z2 + d2) * (R2 + z2 + d2) / sq3
	az := (R2 + 3*z2 - d2) / sq
	bz := 2 * z2 * (R2 + z2 - d2) * (R2 + z2 - d2) / sq3
	cross := 2 * R * z / sq * (1 - ((R2+z2)*(R2+z2)-d2*d2)/discr)

	return Hessian{
		D2LambdaDR2:  1 + aR - bR,
		D2NuDR2:      1 - aR + bR,
		D2LambdaDz2:  1 + az - bz,
		D2NuDz2:      1 - az + bz,
		D2LambdaDRDz: cross,
		D2NuDRDz:     -cross,
	}
}
