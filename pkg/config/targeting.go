package config

import (
	"fmt"
	"strings"
)

// AutoTargeting decides whether a hit changes the shooter's target.
type AutoTargeting int

const (
	// Never leaves the target alone.
	Never AutoTargeting = iota
	// HitAndNoTarget targets the hit craft only when the shooter has no target.
	HitAndNoTarget
	// HitAndAutoTarget targets the hit craft unless the shooter picked a
	// different target manually.
	HitAndAutoTarget
	// AlwaysWhenHit always targets the hit craft.
	AlwaysWhenHit
)

var autoTargetingNames = map[AutoTargeting]string{
	Never:            "never",
	HitAndNoTarget:   "hit-and-no-target",
	HitAndAutoTarget: "hit-and-auto-target",
	AlwaysWhenHit:    "always-when-hit",
}

// String returns the configuration name of the mode.
func (a AutoTargeting) String() string {
	if name, ok := autoTargetingNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAutoTargeting converts a configuration value to an AutoTargeting.
// Matching ignores case and accepts underscores in place of dashes.
func ParseAutoTargeting(s string) (AutoTargeting, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for mode, name := range autoTargetingNames {
		if name == normalized {
			return mode, nil
		}
	}
	return Never, fmt.Errorf("unknown auto-targeting mode %q", s)
}
