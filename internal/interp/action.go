// SPDX-License-Identifier: MPL-2.0

// Package interp classifies logical input lines. One call to Interpret
// produces exactly one Action; the REPL driver owns applying it. The builtin
// grammar is a closed, explicitly matched table rather than a generic
// argument parser, so the resolver is total and exhaustively testable.
package interp

type (
	// Action is the closed set of outcomes of interpreting one logical line.
	// The driver switches over the concrete types; isAction seals the set.
	Action interface {
		isAction()
	}

	// Continue is a no-op: empty line, or a reported error whose only effect
	// is to keep the loop going.
	Continue struct{}

	// BufferContinuation asks the driver to stash Partial and wait for the
	// next raw line before interpreting.
	BufferContinuation struct {
		Partial string
	}

	// SetWorkingDir changes the session working directory. An empty Dir
	// means the home directory.
	SetWorkingDir struct {
		Dir string
	}

	// SetEnv stores an environment variable in the session overlay.
	SetEnv struct {
		Name  string
		Value string
	}

	// UnsetEnv removes an environment variable from the session view.
	UnsetEnv struct {
		Name string
	}

	// MutateRegistry adds or removes directory paths, or resets the registry
	// to exactly Paths.
	MutateRegistry struct {
		Op    RegistryOp
		Paths []string
	}

	// LoadRegistryFromFile registers every whitespace-separated path listed
	// in the file.
	LoadRegistryFromFile struct {
		Path string
	}

	// PrintRegistryDump prints all registered directories.
	PrintRegistryDump struct{}

	// PrintHelp prints builtin usage.
	PrintHelp struct{}

	// Echo prints its arguments joined by single spaces.
	Echo struct {
		Args []string
	}

	// ExecuteExternal runs Argv across every registered directory. Argv is
	// never empty.
	ExecuteExternal struct {
		Argv []string
	}

	// Exit terminates the session, printing Farewell first when non-empty.
	Exit struct {
		Farewell string
	}

	// UsageError reports a malformed builtin invocation or a lexing failure.
	// The driver prints Message on the error stream and keeps looping; it
	// never falls through to external execution.
	UsageError struct {
		Message string
	}

	// RegistryOp selects the registry mutation kind.
	RegistryOp int
)

// Registry mutation kinds.
const (
	RegistryAdd RegistryOp = iota
	RegistryRemove
	RegistryReset
)

func (Continue) isAction()             {}
func (BufferContinuation) isAction()   {}
func (SetWorkingDir) isAction()        {}
func (SetEnv) isAction()               {}
func (UnsetEnv) isAction()             {}
func (MutateRegistry) isAction()       {}
func (LoadRegistryFromFile) isAction() {}
func (PrintRegistryDump) isAction()    {}
func (PrintHelp) isAction()            {}
func (Echo) isAction()                 {}
func (ExecuteExternal) isAction()      {}
func (Exit) isAction()                 {}
func (UsageError) isAction()           {}
