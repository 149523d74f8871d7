// Package plan constructs the immutable LinkPlan artifact and renders its
// canonical backend argument vector.
package plan

import "github.com/saint0x/jello/internal/types"

// BuildInput collects everything Build needs to assemble a LinkPlan. It
// corresponds directly to the {inv, triple, backend, backend_path,
// resolved_libs, search_paths, fixes} tuple the plan is built from.
type BuildInput struct {
	Invocation   types.Invocation
	Triple       types.Triple
	Backend      types.Backend
	BackendPath  string
	ResolvedLibs []types.ResolvedLib
	SearchPaths  []string

	// ArchiveOrder is the dependency order reorder.Libs computed for the
	// static-archive participants (Archive inputs plus static resolved
	// libs). Nil or empty when there were none to reorder.
	ArchiveOrder []string

	// GroupFix is reorder's AddGroup fix, set only when a cycle was found
	// and the active fix mode decided to apply it by wrapping the cycle
	// members in a start-group/end-group block.
	GroupFix *types.Fix
}

// Build assembles the immutable LinkPlan, including its rendered
// BackendArgs.
func Build(in BuildInput) types.LinkPlan {
	inv := in.Invocation
	output := inv.Output
	if output == "" {
		output = "a.out"
	}

	sysroot, hasSysroot := firstValue(inv.Flags, types.FlagSysroot)
	dynLinker, hasDynLinker := firstValue(inv.Flags, types.FlagDynamicLinker)

	r := &renderer{
		libNameByPath: namedStaticLibsByPath(in.ResolvedLibs),
		archiveSet:    toSet(in.ArchiveOrder),
		archiveOrder:  in.ArchiveOrder,
		groupFix:      in.GroupFix,
	}

	plan := types.LinkPlan{
		Backend:       in.Backend,
		BackendPath:   in.BackendPath,
		Triple:        in.Triple,
		LinkMode:      inv.LinkMode,
		Output:        output,
		Inputs:        inv.Inputs,
		Flags:         inv.Flags,
		SearchPaths:   in.SearchPaths,
		ResolvedLibs:  in.ResolvedLibs,
		Sysroot:       sysroot,
		HasSysroot:    hasSysroot,
		DynamicLinker: dynLinker,
		HasDynLinker:  hasDynLinker,
		RawArgs:       inv.RawArgs,
	}
	if in.GroupFix != nil {
		plan.FixesApplied = []types.Fix{*in.GroupFix}
	}
	plan.BackendArgs = r.render(plan, output, sysroot, hasSysroot, dynLinker, hasDynLinker)
	return plan
}

func firstValue(flags []types.Flag, kind types.FlagKind) (string, bool) {
	for _, f := range flags {
		if f.Kind == kind {
			return f.Value, true
		}
	}
	return "", false
}

func namedStaticLibsByPath(libs []types.ResolvedLib) map[string]string {
	out := make(map[string]string)
	for _, l := range libs {
		if l.Kind == types.LibKindStatic && l.Ref.Kind == types.LibRefNamed {
			out[l.ResolvedPath] = l.Ref.Name
		}
	}
	return out
}

func toSet(paths []string) map[string]struct{} {
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out
}

// excludedFromGenericLoop are the flag kinds that step 6 never re-emits
// because an earlier step (or the archive block) already accounts for
// them.
var excludedFromGenericLoop = map[types.FlagKind]bool{
	types.FlagOutput:        true,
	types.FlagSearchPath:    true,
	types.FlagSetShared:     true,
	types.FlagPIE:           true,
	types.FlagNoPIE:         true,
	types.FlagSetStatic:     true,
	types.FlagSysroot:       true,
	types.FlagDynamicLinker: true,
	types.FlagUseLd:         true,
	types.FlagTarget:        true,
	types.FlagArch:          true,
	types.FlagM32:           true,
	types.FlagM64:           true,
	types.FlagLTO:           true,
	types.FlagNoStdlib:      true,
	types.FlagNoStartFiles:  true,
	types.FlagNoDefaultLibs: true,
	types.FlagStdlib:        true,
	types.FlagDebug:         true,
}

type renderer struct {
	libNameByPath map[string]string
	archiveSet    map[string]struct{}
	archiveOrder  []string
	groupFix      *types.Fix
}

func (r *renderer) render(plan types.LinkPlan, output, sysroot string, hasSysroot bool, dynLinker string, hasDynLinker bool) []string {
	var args []string

	args = append(args, "-o", output)
	args = append(args, linkModeArgs(plan.LinkMode)...)
	for _, p := range plan.SearchPaths {
		args = append(args, "-L", p)
	}
	if hasSysroot {
		args = append(args, "--sysroot="+sysroot)
	}
	if hasDynLinker {
		args = append(args, "--dynamic-linker", dynLinker)
	}

	for _, f := range plan.Flags {
		if excludedFromGenericLoop[f.Kind] {
			continue
		}
		if f.Kind == types.FlagLinkLib && r.isArchiveParticipant(libPath(f, r.libNameByPath)) {
			continue
		}
		args = append(args, f.Render()...)
	}

	// The archive block takes the place of the first archive input it covers;
	// when no input is a covered archive it follows the flags.
	firstArchive := -1
	for i, in := range plan.Inputs {
		if _, ok := r.archiveSet[in.Path]; ok && in.Kind == types.InputArchive {
			firstArchive = i
			break
		}
	}
	if firstArchive < 0 {
		args = append(args, r.renderArchiveBlock()...)
	}

	for i, in := range plan.Inputs {
		if i == firstArchive {
			args = append(args, r.renderArchiveBlock()...)
		}
		if in.Kind == types.InputArchive {
			if _, ok := r.archiveSet[in.Path]; ok {
				continue
			}
		}
		args = append(args, renderInput(in)...)
	}

	return args
}

func linkModeArgs(mode types.LinkMode) []string {
	switch mode {
	case types.LinkShared:
		return []string{"-shared"}
	case types.LinkPie:
		return []string{"-pie"}
	case types.LinkStatic:
		return []string{"-static"}
	case types.LinkRelocatable:
		return []string{"-r"}
	default:
		return nil
	}
}

// libPath returns the resolved path a LinkLib flag refers to, so its
// membership in the archive set can be tested; it returns "" when the flag
// does not resolve to a known static archive path (e.g. it resolved to a
// shared object, or did not resolve at all).
func libPath(f types.Flag, libNameByPath map[string]string) string {
	for path, name := range libNameByPath {
		if name == f.Lib.Name {
			return path
		}
	}
	return ""
}

func (r *renderer) isArchiveParticipant(path string) bool {
	if path == "" {
		return false
	}
	_, ok := r.archiveSet[path]
	return ok
}

// renderArchiveBlock emits every archive-participant in dependency order,
// preferring the -l<name> spelling for resolved named libraries and a bare
// path otherwise. When groupFix names a cycle, its members are wrapped in
// --start-group/--end-group.
func (r *renderer) renderArchiveBlock() []string {
	if len(r.archiveOrder) == 0 {
		return nil
	}
	cycle := make(map[string]struct{})
	if r.groupFix != nil {
		for _, p := range r.groupFix.Action.Libs {
			cycle[p] = struct{}{}
		}
	}

	var args []string
	emitted := make(map[string]struct{}, len(cycle))
	groupOpened := false
	for _, p := range r.archiveOrder {
		if _, ok := cycle[p]; ok {
			if !groupOpened {
				args = append(args, "--start-group")
				groupOpened = true
				for _, member := range r.archiveOrder {
					if _, inCycle := cycle[member]; !inCycle {
						continue
					}
					if _, done := emitted[member]; done {
						continue
					}
					args = append(args, r.renderOne(member))
					emitted[member] = struct{}{}
				}
				args = append(args, "--end-group")
			}
			continue
		}
		args = append(args, r.renderOne(p))
	}
	return args
}

func (r *renderer) renderOne(p string) string {
	if name, ok := r.libNameByPath[p]; ok {
		return "-l" + name
	}
	return p
}

func renderInput(in types.Input) []string {
	switch in.Kind {
	case types.InputResponseFile:
		return []string{"@" + in.Path}
	case types.InputLib:
		switch in.Lib.Kind {
		case types.LibRefNamed:
			return []string{in.Lib.String()}
		case types.LibRefFramework:
			return []string{"-framework", in.Lib.Name}
		default:
			return []string{in.Lib.Path}
		}
	default:
		return []string{in.Path}
	}
}
