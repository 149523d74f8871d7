package types

import (
	"fmt"
	"strings"
)

// Error is jello's closed error taxonomy. Each phase returns
// one of these concrete types (or wraps it in Multiple); callers that need
// to branch on the failing phase use errors.As against the concrete type.
type Error interface {
	error
	Phase() string
}

// ParseError signals a malformed argv.
type ParseError struct{ Reason string }

func (e *ParseError) Error() string { return "parse: " + e.Reason }
func (e *ParseError) Phase() string { return "parse" }

// NormalizeError signals a failure while reconciling conflicting flags.
type NormalizeError struct{ Reason string }

func (e *NormalizeError) Error() string { return "normalize: " + e.Reason }
func (e *NormalizeError) Phase() string { return "normalize" }

// DiscoveryError signals that no usable toolchain component was found.
type DiscoveryError struct{ Reason string }

func (e *DiscoveryError) Error() string { return "discovery: " + e.Reason }
func (e *DiscoveryError) Phase() string { return "discovery" }

// ResolveError signals a library reference that could not be mapped to a
// file on disk.
type ResolveError struct {
	Lib     string
	Searched []string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve: cannot find library %q (searched: %s)", e.Lib, strings.Join(e.Searched, ", "))
}
func (e *ResolveError) Phase() string { return "resolve" }

// SymbolError signals a failure extracting a symbol table.
type SymbolError struct{ Reason string }

func (e *SymbolError) Error() string { return "symbol: " + e.Reason }
func (e *SymbolError) Phase() string { return "symbol" }

// ReorderError signals a programming-bug-level failure in the dependency
// solver; cycles themselves are not errors.
type ReorderError struct{ Reason string }

func (e *ReorderError) Error() string { return "reorder: " + e.Reason }
func (e *ReorderError) Phase() string { return "reorder" }

// PlanError signals a failure constructing the LinkPlan; these are treated
// as programming bugs.
type PlanError struct{ Reason string }

func (e *PlanError) Error() string { return "plan: " + e.Reason }
func (e *PlanError) Phase() string { return "plan" }

// ExecError signals a subprocess spawn failure or abnormal termination
// before any exit code could be observed.
type ExecError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string { return fmt.Sprintf("exec: exit %d: %s", e.ExitCode, e.Stderr) }
func (e *ExecError) Phase() string { return "exec" }

// Multiple composes several errors, most commonly a batch of unresolved
// libraries.
type Multiple struct{ Errors []error }

func (e *Multiple) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
func (e *Multiple) Phase() string { return "multiple" }

// Unwrap exposes the composed errors to errors.Is/As.
func (e *Multiple) Unwrap() []error { return e.Errors }

// FormatError renders err the way the driver prints it to stderr: "<program>: <error>".
func FormatError(program string, err error) string {
	return program + ": " + err.Error()
}
