package types

// Invocation is the normalized model of a raw argv, produced once by Parse
// and mutated once by Normalize; thereafter read-only.
type Invocation struct {
	RawArgs             []string `json:"raw_args"`
	Flags               []Flag   `json:"flags"`
	Inputs              []Input  `json:"inputs"`
	Output              string   `json:"output,omitempty"`
	HasOutput           bool     `json:"has_output"`
	LinkMode            LinkMode `json:"link_mode"`
	ExplicitSearchPaths []string `json:"explicit_search_paths"`
}

// DeriveLinkMode computes LinkMode from the parsed flags:
// Shared wins over Pie over Static, else Executable.
func DeriveLinkMode(flags []Flag) LinkMode {
	sawShared, sawPie, sawStatic, sawRelocatable := false, false, false, false
	for _, f := range flags {
		switch f.Kind {
		case FlagSetShared:
			sawShared = true
		case FlagPIE:
			sawPie = true
		case FlagNoPIE:
			sawPie = false
		case FlagSetStatic:
			sawStatic = true
		}
	}
	switch {
	case sawShared:
		return LinkShared
	case sawPie:
		return LinkPie
	case sawStatic:
		return LinkStatic
	case sawRelocatable:
		return LinkRelocatable
	default:
		return LinkExecutable
	}
}
