// Package coords converts between the rectangular, cylindrical and prolate
// spheroidal coordinate systems used by the potentials and orbit integrator.
//
// Cylindrical coordinates are (R, z, phi) with phi measured from the x axis.
// Prolate spheroidal coordinates follow the (lambda, nu) convention of de
// Zeeuw (1985): lambda >= -alpha >= nu >= -gamma, with gamma - alpha = Delta^2
// fixing the focal distance.
package coords

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RectToCyl returns (R, phi, z) for a Cartesian position.
func RectToCyl(p r3.Vec) (R, phi, z float64) {
	R = math.Hypot(p.X, p.Y)
	phi = math.Atan2(p.Y, p.X)
	return R, phi, p.Z
}

// CylToRect returns the Cartesian position for (R, phi, z).
func CylToRect(R, phi, z float64) r3.Vec {
	sp, cp := math.Sincos(phi)
	return r3.Vec{X: R * cp, Y: R * sp, Z: z}
}

// CylVecToRect rotates a vector with cylindrical components (vR, vT, vz)
// at azimuth phi into Cartesian components.
func CylVecToRect(vR, vT, vz, phi float64) r3.Vec {
	sp, cp := math.Sincos(phi)
	return r3.Vec{X: vR*cp - vT*sp, Y: vR*sp + vT*cp, Z: vz}
}

// RectVecToCyl projects a Cartesian vector onto the cylindrical unit vectors
// at azimuth phi.
func RectVecToCyl(v r3.Vec, phi float64) (vR, vT, vz float64) {
	sp, cp := math.Sincos(phi)
	return v.X*cp + v.Y*sp, -v.X*sp + v.Y*cp, v.Z
}
