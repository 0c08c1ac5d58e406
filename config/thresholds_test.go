package config

import (
	"testing"

	"aquamon/analytics"
)

// Every parameter ships a seed envelope, and each seed satisfies the
// bound ordering the update path enforces.
func TestDefaultThresholds(t *testing.T) {
	for _, p := range analytics.Parameters {
		env, ok := DefaultThresholds[p]
		if !ok {
			t.Errorf("no default envelope for %s", p)
			continue
		}
		if err := env.Validate(); err != nil {
			t.Errorf("default envelope for %s invalid: %v", p, err)
		}
	}
}
