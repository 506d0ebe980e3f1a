package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical numerics defaults file.
const DefaultConfigPath = "config/numerics.defaults.json"

// NumericsConfig holds the tolerances and sample counts used by the kick
// estimators. Fields left out of a JSON file fall back to the Get* defaults,
// so partial configs are safe.
type NumericsConfig struct {
	// Quadrature
	QuadRelTol       *float64 `json:"quad_rel_tol,omitempty"`
	QuadAbsTol       *float64 `json:"quad_abs_tol,omitempty"`
	QuadOrder        *int     `json:"quad_order,omitempty"`
	QuadMaxIntervals *int     `json:"quad_max_intervals,omitempty"`

	// Orbit integration
	ODERelTol   *float64 `json:"ode_rel_tol,omitempty"`
	ODEAbsTol   *float64 `json:"ode_abs_tol,omitempty"`
	ODEMaxSteps *int     `json:"ode_max_steps,omitempty"`

	// Perturber orbits and full integration
	OrbitSamples     *int     `json:"orbit_samples,omitempty"`
	TMaxFactor       *float64 `json:"tmax_factor,omitempty"`
	IntegrationSteps *int     `json:"integration_steps,omitempty"`
}

// EmptyNumericsConfig returns a config with every field unset.
func EmptyNumericsConfig() *NumericsConfig {
	return &NumericsConfig{}
}

// LoadNumericsConfig loads a NumericsConfig from a JSON file. The file must
// have a .json extension and be under 1MB.
func LoadNumericsConfig(path string) (*NumericsConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyNumericsConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *NumericsConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadNumericsConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set values are usable.
func (c *NumericsConfig) Validate() error {
	for name, v := range map[string]*float64{
		"quad_rel_tol": c.QuadRelTol,
		"quad_abs_tol": c.QuadAbsTol,
		"ode_rel_tol":  c.ODERelTol,
		"ode_abs_tol":  c.ODEAbsTol,
	} {
		if v != nil && (*v < 0 || *v >= 1) {
			return fmt.Errorf("%s must be in [0, 1), got %g", name, *v)
		}
	}
	if c.QuadRelTol != nil && c.QuadAbsTol != nil && *c.QuadRelTol == 0 && *c.QuadAbsTol == 0 {
		return fmt.Errorf("quad_rel_tol and quad_abs_tol cannot both be zero")
	}
	if c.ODERelTol != nil && c.ODEAbsTol != nil && *c.ODERelTol == 0 && *c.ODEAbsTol == 0 {
		return fmt.Errorf("ode_rel_tol and ode_abs_tol cannot both be zero")
	}

	for name, v := range map[string]*int{
		"quad_order":         c.QuadOrder,
		"quad_max_intervals": c.QuadMaxIntervals,
		"ode_max_steps":      c.ODEMaxSteps,
		"integration_steps":  c.IntegrationSteps,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}
	if c.OrbitSamples != nil && *c.OrbitSamples < 2 {
		return fmt.Errorf("orbit_samples must be at least 2, got %d", *c.OrbitSamples)
	}
	if c.TMaxFactor != nil && *c.TMaxFactor <= 0 {
		return fmt.Errorf("tmax_factor must be positive, got %g", *c.TMaxFactor)
	}
	return nil
}

// GetQuadRelTol returns the quad_rel_tol value or the default.
func (c *NumericsConfig) GetQuadRelTol() float64 {
	if c.QuadRelTol == nil {
		return 1e-11
	}
	return *c.QuadRelTol
}

// GetQuadAbsTol returns the quad_abs_tol value or the default.
func (c *NumericsConfig) GetQuadAbsTol() float64 {
	if c.QuadAbsTol == nil {
		return 1e-15
	}
	return *c.QuadAbsTol
}

// GetQuadOrder returns the quad_order value or the default.
func (c *NumericsConfig) GetQuadOrder() int {
	if c.QuadOrder == nil {
		return 15
	}
	return *c.QuadOrder
}

// GetQuadMaxIntervals returns the quad_max_intervals value or the default.
func (c *NumericsConfig) GetQuadMaxIntervals() int {
	if c.QuadMaxIntervals == nil {
		return 400
	}
	return *c.QuadMaxIntervals
}

// GetODERelTol returns the ode_rel_tol value or the default.
func (c *NumericsConfig) GetODERelTol() float64 {
	if c.ODERelTol == nil {
		return 1e-11
	}
	return *c.ODERelTol
}

// GetODEAbsTol returns the ode_abs_tol value or the default.
func (c *NumericsConfig) GetODEAbsTol() float64 {
	if c.ODEAbsTol == nil {
		return 1e-13
	}
	return *c.ODEAbsTol
}

// GetODEMaxSteps returns the ode_max_steps value or the default.
func (c *NumericsConfig) GetODEMaxSteps() int {
	if c.ODEMaxSteps == nil {
		return 2000000
	}
	return *c.ODEMaxSteps
}

// GetOrbitSamples returns the orbit_samples value or the default.
func (c *NumericsConfig) GetOrbitSamples() int {
	if c.OrbitSamples == nil {
		return 1000
	}
	return *c.OrbitSamples
}

// GetTMaxFactor returns the tmax_factor value or the default.
func (c *NumericsConfig) GetTMaxFactor() float64 {
	if c.TMaxFactor == nil {
		return 10
	}
	return *c.TMaxFactor
}

// GetIntegrationSteps returns the integration_steps value or the default.
func (c *NumericsConfig) GetIntegrationSteps() int {
	if c.IntegrationSteps == nil {
		return 1000
	}
	return *c.IntegrationSteps
}
