// Package types defines the closed algebras shared across jello's pipeline:
// target triples, link-line flags, input classification, symbol kinds, and
// the diagnostic/fix vocabulary. Every enumerated concept here is a sum type
// so that callers can switch over it exhaustively.
package types

// Arch is a target CPU architecture recognized by the triple model.
type Arch uint8

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchI686
	ArchAarch64
	ArchArmv7
	ArchRiscv32
	ArchRiscv64
	ArchMips
	ArchMipsel
	ArchPowerpc64
	ArchPowerpc64le
	ArchS390x
	ArchWasm32
)

var archNames = map[Arch]string{
	ArchX86_64:      "x86_64",
	ArchI686:        "i686",
	ArchAarch64:     "aarch64",
	ArchArmv7:       "armv7",
	ArchRiscv32:     "riscv32",
	ArchRiscv64:     "riscv64",
	ArchMips:        "mips",
	ArchMipsel:      "mipsel",
	ArchPowerpc64:   "powerpc64",
	ArchPowerpc64le: "powerpc64le",
	ArchS390x:       "s390x",
	ArchWasm32:      "wasm32",
}

// String renders the canonical triple-component spelling of a, or "" for
// ArchUnknown.
func (a Arch) String() string {
	return archNames[a]
}

// ParseArch parses the arch component of a triple. It returns ArchUnknown,
// false for anything it does not recognize.
func ParseArch(s string) (Arch, bool) {
	for arch, name := range archNames {
		if name == s {
			return arch, true
		}
	}
	return ArchUnknown, false
}
