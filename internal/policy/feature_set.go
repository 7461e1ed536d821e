// Package policy resolves the environment mode and launch switch into the
// immutable feature set consulted by the outreach gate.
package policy

import (
	"fmt"
	"strings"
)

// Mode is the deployment environment.
type Mode string

const (
	ModeSandbox    Mode = "sandbox"
	ModeProduction Mode = "production"
)

// FeatureSet is computed once at process start and passed by value.
type FeatureSet struct {
	Mode Mode `json:"mode"`
	// MayAutoSend is true in sandbox only in the simulated sense.
	MayAutoSend      bool `json:"mayAutoSend"`
	RequiresApproval bool `json:"requiresApproval"`
	LiveIntegrations bool `json:"liveIntegrations"`
	LaunchSwitch     bool `json:"launchSwitch"`
}

// IsSandbox reports whether outbound actions are only simulated.
func (f FeatureSet) IsSandbox() bool {
	return f.Mode == ModeSandbox
}

// ParseMode accepts "sandbox" or "production". Empty means sandbox.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeSandbox:
		return ModeSandbox, nil
	case ModeProduction:
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown environment mode %q (want sandbox or production)", raw)
	}
}

// Resolve derives the feature set. Production always requires approval; the
// launch switch only decides whether approved items may be transmitted.
func Resolve(mode Mode, launchSwitch bool) FeatureSet {
	if mode != ModeProduction {
		return FeatureSet{
			Mode:             ModeSandbox,
			MayAutoSend:      true,
			RequiresApproval: false,
			LiveIntegrations: false,
			LaunchSwitch:     launchSwitch,
		}
	}
	return FeatureSet{
		Mode:             ModeProduction,
		MayAutoSend:      launchSwitch,
		RequiresApproval: true,
		LiveIntegrations: launchSwitch,
		LaunchSwitch:     launchSwitch,
	}
}
