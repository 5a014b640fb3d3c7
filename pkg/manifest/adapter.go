package manifest

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/manifoldhq/manifold/pkg/permissions"
)

// entryPointKeys lists the legacy entry-point field names in resolution
// priority order.
var entryPointKeys = []string{"entryPoint", "entry", "main", "web", "background"}

// Adapt maps an arbitrary decoded manifest document onto the canonical
// shape. It never fails: the result is always a best-effort candidate plus
// the warnings accumulated while adapting. The input document is never
// mutated. Authoritative rejection happens downstream in the validation
// gate; Adapt only appends the canonical schema's issues to the warnings so
// authors see field problems even from best-effort contexts.
func Adapt(input map[string]any) (Manifest, []string) {
	var warnings []string

	m := Manifest{
		ID:          stringValue(input, "id"),
		Name:        stringValue(input, "name"),
		Version:     stringValue(input, "version"),
		Description: stringValue(input, "description"),
		License:     stringValue(input, "license"),
		Author:      adaptAuthor(input["author"]),
	}

	for _, key := range entryPointKeys {
		if v := stringValue(input, key); v != "" {
			m.EntryPoint = v
			break
		}
	}
	if m.EntryPoint == "" {
		warnings = append(warnings, "No explicit entryPoint found; attempted to map from entry/main/web/background")
	}

	if values, ok := input["permissions"].([]any); ok && len(values) > 0 {
		res := permissions.NormalizeValues(values)
		m.Permissions = res.Permissions
		warnings = append(warnings, res.Warnings...)
	}

	m.Hooks = adaptHooks(input["hooks"])

	m.ConfigSchema = input["configSchema"]
	if m.ConfigSchema == nil {
		m.ConfigSchema = input["config_schema"]
	}
	if m.ConfigSchema != nil {
		if err := probeConfigSchema(m.ConfigSchema); err != nil {
			warnings = append(warnings, fmt.Sprintf("configSchema is not a valid JSON Schema document: %v", err))
		}
	}

	deps, depWarnings := adaptDependencies(input["dependencies"])
	m.Dependencies = deps
	warnings = append(warnings, depWarnings...)

	m.Categories = stringList(input["categories"])
	if m.Categories == nil {
		if c := stringValue(input, "category"); c != "" {
			m.Categories = []string{c}
		} else {
			m.Categories = []string{}
		}
	}

	m.Tags = stringList(input["tags"])
	if m.Tags == nil {
		m.Tags = stringList(input["keywords"])
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}

	// Harvest field-level issues as warnings; the candidate is still
	// returned as-is so callers can inspect it.
	for _, issue := range ValidateCanonical(m) {
		warnings = append(warnings, issue.String())
	}

	return m, warnings
}

func adaptAuthor(v any) Author {
	switch a := v.(type) {
	case string:
		if a != "" {
			return NameOnlyAuthor(a)
		}
	case map[string]any:
		if name, ok := a["name"].(string); ok && name != "" {
			email, _ := a["email"].(string)
			website, _ := a["website"].(string)
			return DetailedAuthor(name, email, website)
		}
	}
	return NameOnlyAuthor("unknown")
}

// adaptHooks accepts hooks as a list of hook names or as an object whose
// keys are hook names (handler values are discarded). Any other shape
// yields an empty list.
func adaptHooks(v any) []string {
	switch h := v.(type) {
	case []any:
		hooks := make([]string, 0, len(h))
		for _, item := range h {
			if s, ok := item.(string); ok {
				hooks = append(hooks, s)
			}
		}
		return hooks
	case map[string]any:
		hooks := make([]string, 0, len(h))
		for name := range h {
			hooks = append(hooks, name)
		}
		// Map iteration order is randomized; keep hook order stable.
		sort.Strings(hooks)
		return hooks
	default:
		return []string{}
	}
}

func adaptDependencies(v any) (map[string]string, []string) {
	raw, ok := v.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, nil
	}

	deps := make(map[string]string, len(raw))
	var warnings []string
	for name, rng := range raw {
		s, ok := rng.(string)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Dependency %q has a non-string version range and was dropped", name))
			continue
		}
		deps[name] = s
	}
	return deps, warnings
}

// probeConfigSchema compiles the embedded configuration schema to confirm
// it is itself a usable JSON Schema document. Failures are advisory only.
func probeConfigSchema(cs any) error {
	_, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(cs))
	return err
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringList converts a decoded JSON array to a string slice, skipping
// non-string elements. Returns nil when v is not an array at all so
// callers can distinguish "absent" from "empty".
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

