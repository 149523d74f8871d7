package driver

import (
	"fmt"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// ExplainTrace renders the human-readable trace jello prints to stderr when
// run with --explain: the triple it detected, the backend it picked, every
// resolved library, and any fix it considered applying.
func ExplainTrace(plan *types.LinkPlan, tr types.Triple, fixes []types.Fix) string {
	var b strings.Builder
	fmt.Fprintf(&b, "jello: target %s\n", tr)
	fmt.Fprintf(&b, "jello: backend %s (%s)\n", plan.Backend, plan.BackendPath)
	fmt.Fprintf(&b, "jello: link mode %s, output %s\n", plan.LinkMode, plan.Output)

	if len(plan.ResolvedLibs) > 0 {
		fmt.Fprintln(&b, "jello: resolved libraries:")
		for _, lib := range plan.ResolvedLibs {
			name := lib.Ref.Name
			if name == "" {
				name = lib.Ref.Path
			}
			fmt.Fprintf(&b, "  %s -> %s\n", name, lib.ResolvedPath)
		}
	}

	if len(fixes) > 0 {
		fmt.Fprintln(&b, "jello: fixes considered:")
		for _, f := range fixes {
			applied := "suggested"
			for _, a := range plan.FixesApplied {
				if a.Description == f.Description {
					applied = "applied"
					break
				}
			}
			fmt.Fprintf(&b, "  [%s, %s] %s\n", f.Confidence, applied, f.Description)
		}
	}

	return b.String()
}
