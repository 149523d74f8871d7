package types

// LinkPlan is the immutable, serializable artifact that fully explains a
// link: backend, inputs, flags, resolved libraries, search paths, fixes,
// diagnostics, and the rendered backend argument vector. It is constructed
// once by Plan.Build and never mutated afterward.
type LinkPlan struct {
	Backend        Backend       `json:"backend"`
	BackendPath    string        `json:"backend_path"`
	Triple         Triple        `json:"triple"`
	LinkMode       LinkMode      `json:"link_mode"`
	Output         string        `json:"output"`
	Inputs         []Input       `json:"inputs"`
	Flags          []Flag        `json:"flags"`
	SearchPaths    []string      `json:"search_paths"`
	ResolvedLibs   []ResolvedLib `json:"resolved_libs"`
	Sysroot        string        `json:"sysroot,omitempty"`
	HasSysroot     bool          `json:"has_sysroot"`
	DynamicLinker  string        `json:"dynamic_linker,omitempty"`
	HasDynLinker   bool          `json:"has_dynamic_linker"`
	FixesApplied   []Fix         `json:"fixes_applied"`
	Diagnostics    []Diagnostic  `json:"diagnostics"`
	RawArgs        []string      `json:"raw_args"`
	BackendArgs    []string      `json:"backend_args"`
}

// ExecResult wraps a LinkPlan with the outcome of executing it. It is built
// once by Execute and then re-wrapped, never mutated, by Diagnose to add
// PostDiagnostics.
type ExecResult struct {
	Plan            *LinkPlan    `json:"plan"`
	ExitCode        int          `json:"exit_code"`
	Stdout          string       `json:"stdout"`
	Stderr          string       `json:"stderr"`
	PostDiagnostics []Diagnostic `json:"post_diagnostics,omitempty"`
}

// WithPostDiagnostics returns a copy of r with PostDiagnostics replaced,
// leaving r itself untouched.
func (r ExecResult) WithPostDiagnostics(diags []Diagnostic) ExecResult {
	r.PostDiagnostics = diags
	return r
}

// FixMode is the policy controlling whether suggested fixes are applied,
// merely reported, or treated as link failures when present.
type FixMode uint8

const (
	FixModeSuggest FixMode = iota
	FixModeAuto
	FixModeHardFail
)

func (m FixMode) String() string {
	switch m {
	case FixModeAuto:
		return "auto"
	case FixModeHardFail:
		return "strict"
	default:
		return "suggest"
	}
}

// ParseFixMode parses the --mode / JELLO_FIX_MODE value.
func ParseFixMode(s string) (FixMode, bool) {
	switch s {
	case "auto":
		return FixModeAuto, true
	case "suggest":
		return FixModeSuggest, true
	case "strict":
		return FixModeHardFail, true
	default:
		return FixModeSuggest, false
	}
}
