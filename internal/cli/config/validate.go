package config

import (
	"fmt"
	"slices"
)

var validOutputs = []string{"auto", "text", "plain", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Style == "" {
		return fmt.Errorf("style is required")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, validOutputs)
	}
	if c.Clang == "" {
		return fmt.Errorf("clang is required")
	}
	if c.UpdateBaseline && c.Baseline == "" {
		return fmt.Errorf("update_baseline requires a baseline path\nHint: pass --baseline PATH")
	}
	return nil
}
