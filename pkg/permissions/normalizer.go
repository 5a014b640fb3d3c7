package permissions

import "fmt"

// legacyMapping covers every known legacy permission spelling. Dotted
// spellings come from second-generation manifests; bare category spellings
// come from the original {type: ...} permission objects.
var legacyMapping = map[string]Permission{
	// dotted style
	"storage.read":       StorageRead,
	"storage.write":      StorageWrite,
	"network.request":    NetworkAccess,
	"notifications.show": Notifications,
	"clipboard.read":     ClipboardRead,
	"clipboard.write":    ClipboardWrite,
	"geolocation.read":   Geolocation,
	"camera.access":      Camera,
	"microphone.access":  Microphone,

	// bare category style
	"storage":       StorageRead,
	"network":       NetworkAccess,
	"filesystem":    FilesystemAccess,
	"notifications": Notifications,
	"calendar":      Calendar,
	"contacts":      Contacts,
	"location":      Geolocation,
	"camera":        Camera,
	"microphone":    Microphone,
}

// Object is a legacy typed permission entry, e.g. {"type": "storage"}.
type Object struct {
	Type string `json:"type"`
}

// Result is the outcome of normalizing a batch of legacy tokens. Permissions
// holds the de-duplicated canonical set in vocabulary order; Warnings lists
// every token that could not be mapped.
type Result struct {
	Permissions []Permission
	Warnings    []string
}

// MapLegacy maps a single legacy token onto its canonical permission.
// The second return value reports whether the token was recognized.
func MapLegacy(token string) (Permission, bool) {
	p, ok := legacyMapping[token]
	return p, ok
}

// NormalizeStrings maps a list of legacy string tokens onto the canonical
// vocabulary. Unknown tokens are dropped with a warning.
func NormalizeStrings(tokens []string) Result {
	acc := newAccumulator()
	for _, t := range tokens {
		acc.addString(t)
	}
	return acc.result()
}

// NormalizeObjects maps a list of legacy typed permission objects onto the
// canonical vocabulary. Unknown types are dropped with a warning.
func NormalizeObjects(tokens []Object) Result {
	acc := newAccumulator()
	for _, t := range tokens {
		acc.addObject(t.Type)
	}
	return acc.result()
}

// NormalizeValues normalizes a heterogeneous permission list as it appears
// in a freshly decoded manifest document. Each element is classified
// independently: strings go through the string table, objects carrying a
// string "type" field go through the object table, and anything else is
// dropped with a warning. Homogeneous inputs behave exactly like
// NormalizeStrings / NormalizeObjects.
func NormalizeValues(values []any) Result {
	acc := newAccumulator()
	for _, v := range values {
		switch t := v.(type) {
		case string:
			acc.addString(t)
		case Object:
			acc.addObject(t.Type)
		case map[string]any:
			typ, ok := t["type"].(string)
			if !ok {
				acc.warnf("Unknown permission entry: %v", t)
				continue
			}
			acc.addObject(typ)
		default:
			acc.warnf("Unknown permission entry: %v", v)
		}
	}
	return acc.result()
}

// accumulator collects mapped permissions with set semantics and keeps
// warnings in input order.
type accumulator struct {
	seen     map[Permission]bool
	warnings []string
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[Permission]bool)}
}

func (a *accumulator) addString(token string) {
	if p, ok := MapLegacy(token); ok {
		a.seen[p] = true
		return
	}
	a.warnf("Unknown permission: %s", token)
}

func (a *accumulator) addObject(typ string) {
	if p, ok := MapLegacy(typ); ok {
		a.seen[p] = true
		return
	}
	a.warnf("Unknown permission type: %s", typ)
}

func (a *accumulator) warnf(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

func (a *accumulator) result() Result {
	res := Result{Warnings: a.warnings}
	for _, p := range canonical {
		if a.seen[p] {
			res.Permissions = append(res.Permissions, p)
		}
	}
	return res
}
