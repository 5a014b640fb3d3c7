// Package runtime reports what the hosting environment allows the plugin
// system to do. Restricted deployments (serverless edge workers, read-only
// replicas) can browse and validate manifests but must not load plugin
// components; full deployments support the whole marketplace surface.
// Detection is metadata only; nothing in this package executes plugin code.
package runtime

import "os"

// Environment identifies the hosting environment class.
type Environment string

const (
	// EnvironmentFull supports the complete marketplace surface.
	EnvironmentFull Environment = "full"
	// EnvironmentRestricted limits the deployment to static operations.
	EnvironmentRestricted Environment = "restricted"
	// EnvironmentUnknown is reported when detection is inconclusive.
	EnvironmentUnknown Environment = "unknown"
)

// envVar overrides detection; deployments set it explicitly.
const envVar = "MANIFOLD_RUNTIME"

// Detect determines the current environment. An explicit MANIFOLD_RUNTIME
// value wins; otherwise the environment defaults to full, since the service
// binary only runs on complete hosts.
func Detect() Environment {
	switch os.Getenv(envVar) {
	case "full":
		return EnvironmentFull
	case "restricted":
		return EnvironmentRestricted
	case "":
		return EnvironmentFull
	default:
		return EnvironmentUnknown
	}
}

// Capabilities describes what plugin operations the environment supports.
type Capabilities struct {
	Environment       Environment `json:"environment"`
	CanLoadPlugins    bool        `json:"can_load_plugins"`
	CanLoadComponents bool        `json:"can_load_components"`
	SupportedFeatures []string    `json:"supported_features"`
	Limitations       []string    `json:"limitations"`
}

// CapabilitiesFor reports the capability profile of an environment.
func CapabilitiesFor(env Environment) Capabilities {
	switch env {
	case EnvironmentFull:
		return Capabilities{
			Environment:       env,
			CanLoadPlugins:    true,
			CanLoadComponents: true,
			SupportedFeatures: []string{
				"Plugin loading",
				"Component loading",
				"Plugin marketplace browsing",
				"Manifest validation",
				"Installation management",
			},
			Limitations: []string{},
		}
	case EnvironmentRestricted:
		return Capabilities{
			Environment:       env,
			CanLoadPlugins:    false,
			CanLoadComponents: false,
			SupportedFeatures: []string{
				"Plugin metadata access",
				"Plugin marketplace browsing",
				"Manifest validation",
				"Installation management",
			},
			Limitations: []string{
				"No plugin loading",
				"No component loading",
				"Limited to static operations",
			},
		}
	default:
		return Capabilities{
			Environment:       EnvironmentUnknown,
			SupportedFeatures: []string{"Basic plugin metadata"},
			Limitations:       []string{"Unknown runtime environment"},
		}
	}
}

// Current is shorthand for CapabilitiesFor(Detect()).
func Current() Capabilities {
	return CapabilitiesFor(Detect())
}
