package permissions

// Permission is a single canonical permission identifier. The values below
// are the exact tokens used on the wire and in persisted manifests; any
// collaborator exchanging plugin data must use them verbatim.
type Permission string

const (
	NetworkAccess    Permission = "network-access"
	StorageRead      Permission = "storage-read"
	StorageWrite     Permission = "storage-write"
	FilesystemAccess Permission = "filesystem-access"
	Notifications    Permission = "notifications"
	ClipboardRead    Permission = "clipboard-read"
	ClipboardWrite   Permission = "clipboard-write"
	Geolocation      Permission = "geolocation"
	Camera           Permission = "camera"
	Microphone       Permission = "microphone"
	Calendar         Permission = "calendar"
	Contacts         Permission = "contacts"
)

// canonical is the closed, ordered vocabulary. Order here defines the
// deterministic output order of the normalizer.
var canonical = []Permission{
	NetworkAccess,
	StorageRead,
	StorageWrite,
	FilesystemAccess,
	Notifications,
	ClipboardRead,
	ClipboardWrite,
	Geolocation,
	Camera,
	Microphone,
	Calendar,
	Contacts,
}

var canonicalSet = func() map[Permission]bool {
	m := make(map[Permission]bool, len(canonical))
	for _, p := range canonical {
		m[p] = true
	}
	return m
}()

// All returns the canonical vocabulary in its defined order. The returned
// slice is a copy; callers may modify it freely.
func All() []Permission {
	out := make([]Permission, len(canonical))
	copy(out, canonical)
	return out
}

// IsCanonical reports whether p is a member of the canonical vocabulary.
func IsCanonical(p Permission) bool {
	return canonicalSet[p]
}

func (p Permission) String() string {
	return string(p)
}
