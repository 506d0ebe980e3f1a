// Package impulse computes the velocity kicks that a passing perturber (a
// dark-matter subhalo, a globular cluster, or a stream of such objects) imparts
// to the stars of a tidal stream in the impulse approximation of Sanders, Bovy
// & Erkal (2016).
//
// The estimators come in families of increasing cost:
//
//   - Closed forms for Plummer and Hernquist perturbers (Plummer, Hernquist and
//     their Curved variants).
//   - The impulse line integral for an arbitrary spherical perturber
//     (Estimator.General, Estimator.GeneralCurved).
//   - Integration of the perturber's force along its orbit in a background
//     potential (Estimator.OrbitIntegration) and full orbit integration of
//     each star through the background plus a moving Plummer sphere
//     (Estimator.FullPlummerIntegration).
//   - Perturbers whose mass passes the stream over a time window
//     (Estimator.PlummerStream, Estimator.PlummerStreamCurved).
//
// Straight estimators take stars as a velocity and a signed position along
// the stream measured from the impact point; curved estimators take full
// positions plus the stream point of closest approach (X0, V0). All results
// are N×3 matrices holding one kick per star in the frame of the input
// velocities. A batch either succeeds completely or returns an error naming
// the failing star.
package impulse
