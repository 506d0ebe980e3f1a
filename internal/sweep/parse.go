// Package sweep runs kick profiles along a model stream over a list of impact
// parameters. It includes parsing of sweep arguments and the runner that
// drives the impulse estimators.
package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParseCSVFloat64s parses a comma-separated list of float64 values.
// Returns nil, nil for empty input strings.
func ParseCSVFloat64s(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseVec3 parses a vector written as "x,y,z".
func ParseVec3(s string) (r3.Vec, error) {
	xs, err := ParseCSVFloat64s(s)
	if err != nil {
		return r3.Vec{}, err
	}
	if len(xs) != 3 {
		return r3.Vec{}, fmt.Errorf("vector '%s' must have 3 components, got %d", s, len(xs))
	}
	return r3.Vec{X: xs[0], Y: xs[1], Z: xs[2]}, nil
}
