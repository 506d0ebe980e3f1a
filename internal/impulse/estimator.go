package impulse

import (
	"github.com/banshee-data/streamkick/internal/config"
	"github.com/banshee-data/streamkick/internal/monitoring"
	"github.com/banshee-data/streamkick/internal/numeric"
)

var logf = monitoring.Component("impulse")

// Config holds the numerical settings of the integrating estimators.
type Config struct {
	Quad numeric.QuadConfig
	ODE  numeric.ODEConfig

	// OrbitSamples is the number of samples per side of a perturber or
	// stream orbit before interpolation.
	OrbitSamples int
	// TMaxFactor sets the full-integration window tmax = TMaxFactor rs/|w - v0|.
	TMaxFactor float64
	// IntegrationSteps caps the full-integration step at tmax/IntegrationSteps
	// so that the encounter is resolved.
	IntegrationSteps int
}

// DefaultConfig returns the built-in numerics defaults.
func DefaultConfig() Config {
	return ConfigFromNumerics(config.EmptyNumericsConfig())
}

// ConfigFromNumerics builds an estimator Config from a loaded numerics
// configuration, using defaults for unset fields.
func ConfigFromNumerics(c *config.NumericsConfig) Config {
	return Config{
		Quad: numeric.QuadConfig{
			RelTol:       c.GetQuadRelTol(),
			AbsTol:       c.GetQuadAbsTol(),
			Order:        c.GetQuadOrder(),
			MaxIntervals: c.GetQuadMaxIntervals(),
		},
		ODE: numeric.ODEConfig{
			RelTol:   c.GetODERelTol(),
			AbsTol:   c.GetODEAbsTol(),
			MaxSteps: c.GetODEMaxSteps(),
		},
		OrbitSamples:     c.GetOrbitSamples(),
		TMaxFactor:       c.GetTMaxFactor(),
		IntegrationSteps: c.GetIntegrationSteps(),
	}
}

// Estimator runs the kick estimators that need quadrature or orbit
// integration. It holds no state beyond its configuration and is safe for
// concurrent use.
type Estimator struct {
	cfg Config
}

// NewEstimator returns an Estimator using cfg.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Config returns the estimator's configuration.
func (est *Estimator) Config() Config { return est.cfg }
