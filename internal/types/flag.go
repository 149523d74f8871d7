package types

import "fmt"

// FlagKind tags the concrete variant carried by a Flag. Flag is a closed
// algebra: every linker semantic jello understands has a dedicated kind,
// plus FlagPassthrough for anything it does not.
type FlagKind uint8

const (
	FlagOutput FlagKind = iota
	FlagSearchPath
	FlagLinkLib
	FlagSysroot
	FlagDynamicLinker
	FlagRpath
	FlagRpathLink
	FlagWholeArchive
	FlagNoWholeArchive
	FlagStartGroup
	FlagEndGroup
	FlagAsNeeded
	FlagNoAsNeeded
	FlagBStatic
	FlagBDynamic
	FlagPushState
	FlagPopState
	FlagGCSections
	FlagNoGCSections
	FlagICF
	FlagExportDynamic
	FlagPIE
	FlagNoPIE
	FlagSetShared
	FlagSetStatic
	FlagNoStdlib
	FlagNoStartFiles
	FlagNoDefaultLibs
	FlagStdlib
	FlagTarget
	FlagArch
	FlagM32
	FlagM64
	FlagLTO
	FlagUseLd
	FlagZ
	FlagSoname
	FlagVersionScript
	FlagLinkerScript
	FlagMapFile
	FlagVerbose
	FlagTrace
	FlagPrintMap
	FlagDebug
	FlagStripAll
	FlagStripDebug
	FlagPassthrough
)

// Flag is a closed sum type over every linker flag jello understands. Like
// LibRef and Input it is a tagged union: Value/Lib/Text are
// interpreted according to Kind. Positional-sensitive kinds (listed in
// IsPositionSensitive) are never deduplicated by Normalize because their
// relative order among other flags of other kinds changes link semantics.
type Flag struct {
	Kind  FlagKind `json:"kind"`
	Value string   `json:"value,omitempty"`
	Lib   LibRef   `json:"lib,omitempty"`
	Text  string   `json:"text,omitempty"` // raw spelling, for Passthrough
}

// Equal reports whether two flags are structurally identical, used by
// Normalize's dedup pass.
func (f Flag) Equal(o Flag) bool {
	return f.Kind == o.Kind && f.Value == o.Value && f.Lib == o.Lib && f.Text == o.Text
}

// IsPositionSensitive reports whether repeated occurrences of this flag
// kind must never be collapsed by Normalize's dedup pass
func IsPositionSensitive(k FlagKind) bool {
	switch k {
	case FlagBStatic, FlagBDynamic, FlagWholeArchive, FlagNoWholeArchive,
		FlagPushState, FlagPopState, FlagStartGroup, FlagEndGroup:
		return true
	default:
		return false
	}
}

// Render produces the canonical textual form for the link line. Passthrough
// flags render their raw text verbatim.
func (f Flag) Render() []string {
	switch f.Kind {
	case FlagOutput:
		return []string{"-o", f.Value}
	case FlagSearchPath:
		return []string{"-L", f.Value}
	case FlagLinkLib:
		return []string{f.Lib.String()}
	case FlagSysroot:
		return []string{"--sysroot=" + f.Value}
	case FlagDynamicLinker:
		return []string{"--dynamic-linker", f.Value}
	case FlagRpath:
		return []string{"-rpath", f.Value}
	case FlagRpathLink:
		return []string{"-rpath-link", f.Value}
	case FlagWholeArchive:
		return []string{"--whole-archive"}
	case FlagNoWholeArchive:
		return []string{"--no-whole-archive"}
	case FlagStartGroup:
		return []string{"--start-group"}
	case FlagEndGroup:
		return []string{"--end-group"}
	case FlagAsNeeded:
		return []string{"--as-needed"}
	case FlagNoAsNeeded:
		return []string{"--no-as-needed"}
	case FlagBStatic:
		return []string{"-Bstatic"}
	case FlagBDynamic:
		return []string{"-Bdynamic"}
	case FlagPushState:
		return []string{"--push-state"}
	case FlagPopState:
		return []string{"--pop-state"}
	case FlagGCSections:
		return []string{"--gc-sections"}
	case FlagNoGCSections:
		return []string{"--no-gc-sections"}
	case FlagICF:
		return []string{"--icf=" + f.Value}
	case FlagExportDynamic:
		return []string{"--export-dynamic"}
	case FlagPIE:
		return []string{"-pie"}
	case FlagNoPIE:
		return []string{"-no-pie"}
	case FlagSetShared:
		return []string{"-shared"}
	case FlagSetStatic:
		return []string{"-static"}
	case FlagNoStdlib:
		return []string{"-nostdlib"}
	case FlagNoStartFiles:
		return []string{"-nostartfiles"}
	case FlagNoDefaultLibs:
		return []string{"-nodefaultlibs"}
	case FlagStdlib:
		return []string{"-stdlib=" + f.Value}
	case FlagTarget:
		return []string{"--target=" + f.Value}
	case FlagArch:
		return []string{"-arch", f.Value}
	case FlagM32:
		return []string{"-m32"}
	case FlagM64:
		return []string{"-m64"}
	case FlagLTO:
		if f.Value == "" {
			return []string{"-flto"}
		}
		return []string{"-flto=" + f.Value}
	case FlagUseLd:
		return []string{"-fuse-ld=" + f.Value}
	case FlagZ:
		return []string{"-z", f.Value}
	case FlagSoname:
		return []string{"-soname", f.Value}
	case FlagVersionScript:
		return []string{"--version-script", f.Value}
	case FlagLinkerScript:
		return []string{"-T", f.Value}
	case FlagMapFile:
		return []string{"-Map=" + f.Value}
	case FlagVerbose:
		return []string{"--verbose"}
	case FlagTrace:
		return []string{"-trace"}
	case FlagPrintMap:
		return []string{"--print-map"}
	case FlagDebug:
		return []string{"-g"}
	case FlagStripAll:
		return []string{"--strip-all"}
	case FlagStripDebug:
		return []string{"--strip-debug"}
	case FlagPassthrough:
		return []string{f.Text}
	default:
		return nil
	}
}

func (f Flag) String() string {
	return fmt.Sprintf("%v", f.Render())
}

// Passthrough wraps a flag jello does not understand so it can still be
// forwarded to the backend verbatim.
func Passthrough(text string) Flag {
	return Flag{Kind: FlagPassthrough, Text: text}
}
