package units

// Physical constants.
const (
	// G is the gravitational constant in kpc (km/s)^2 / Msun.
	G = 4.300917270e-6
	// KpcInKm is one kiloparsec in km.
	KpcInKm = 3.0856775814913673e16
	// GyrInS is one Julian gigayear in seconds.
	GyrInS = 3.15576e16
)

// MassIn1010Msol returns the natural mass unit in 10^10 Msun for velocity
// unit vo (km/s) and distance unit ro (kpc).
func MassIn1010Msol(vo, ro float64) float64 {
	return vo * vo * ro / G * 1e-10
}

// FreqInKmsKpc returns the natural frequency unit in km/s/kpc.
func FreqInKmsKpc(vo, ro float64) float64 {
	return vo / ro
}

// TimeInGyr returns the natural time unit in Gyr.
func TimeInGyr(vo, ro float64) float64 {
	return ro / vo * KpcInKm / GyrInS
}

// MassToNatural converts a mass in Msun to natural units.
func MassToNatural(msun, vo, ro float64) float64 {
	return msun / (MassIn1010Msol(vo, ro) * 1e10)
}
