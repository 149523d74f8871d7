package types

// Backend is one of the external linker binaries jello can delegate to.
type Backend uint8

const (
	BackendUnknown Backend = iota
	BackendMold
	BackendLLD
	BackendGold
	BackendBFD
	BackendSystem
)

var backendNames = map[Backend]string{
	BackendMold:   "mold",
	BackendLLD:    "lld",
	BackendGold:   "gold",
	BackendBFD:    "bfd",
	BackendSystem: "system",
}

func (b Backend) String() string {
	return backendNames[b]
}

// ParseBackend parses a backend name as accepted by --backend / JELLO_BACKEND.
func ParseBackend(s string) (Backend, bool) {
	for b, name := range backendNames {
		if name == s {
			return b, true
		}
	}
	return BackendUnknown, false
}

// DefaultBackendPreference is the order Discovery tries backends in when
// the caller supplies no explicit preference.
func DefaultBackendPreference() []Backend {
	return []Backend{BackendMold, BackendLLD, BackendGold, BackendBFD, BackendSystem}
}

// CandidateNames returns the executable basenames Discovery searches PATH
// for when resolving b.
func (b Backend) CandidateNames() []string {
	switch b {
	case BackendMold:
		return []string{"mold", "ld.mold"}
	case BackendLLD:
		return []string{"ld.lld", "lld"}
	case BackendGold:
		return []string{"ld.gold"}
	case BackendBFD:
		return []string{"ld.bfd"}
	case BackendSystem:
		return []string{"ld"}
	default:
		return nil
	}
}
