package types

import "strings"

// Triple identifies a link target as arch[-vendor]-os[-env]. Vendor has no
// closed algebra (it is advisory, e.g. "apple", "unknown", "pc") so it stays
// a plain string.
type Triple struct {
	Arch   Arch
	Vendor string
	OS     OS
	Env    Env
}

// String renders the canonical hyphen-joined form. An empty Vendor is
// omitted rather than rendered as "unknown"; triple.Parse likewise leaves
// Vendor empty when the input has none, so the two round-trip.
func (t Triple) String() string {
	parts := []string{t.Arch.String()}
	if t.Vendor != "" {
		parts = append(parts, t.Vendor)
	}
	parts = append(parts, t.OS.String())
	if t.Env != EnvNone {
		parts = append(parts, t.Env.String())
	}
	return strings.Join(parts, "-")
}

// Equal compares two triples field by field.
func (t Triple) Equal(o Triple) bool {
	return t.Arch == o.Arch && t.Vendor == o.Vendor && t.OS == o.OS && t.Env == o.Env
}

// DefaultEnv returns the environment jello assumes for os when none is
// given explicitly by the host triple-detection fallback.
func DefaultEnv(os OS) Env {
	switch os {
	case OSLinux:
		return EnvGnu
	case OSDarwin:
		return EnvMacho
	default:
		return EnvNone
	}
}
