// SPDX-License-Identifier: MPL-2.0

package interp

import (
	"fmt"
	"strings"

	"fansh-cli/internal/lexer"
	"fansh-cli/internal/session"
)

// Interpret turns one raw input line into an Action. A line ending in an
// unescaped backslash is buffered without ever reaching the tokenizer; any
// other line is first joined with the pending buffer to form the logical
// line, then tokenized, expanded, and resolved.
func Interpret(raw string, sess *session.Session) Action {
	if endsWithContinuation(raw) {
		return BufferContinuation{Partial: raw[:len(raw)-1]}
	}

	full := sess.TakePending(raw)
	if strings.TrimSpace(full) == "" {
		return Continue{}
	}

	tokens, err := lexer.Tokenize(full)
	if err != nil {
		return UsageError{Message: err.Error()}
	}

	return Resolve(lexer.ExpandAll(tokens, sess))
}

// endsWithContinuation reports whether line ends in an unescaped backslash.
// An even run of trailing backslashes is fully self-escaped and does not
// request a continuation.
func endsWithContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// Resolve maps an expanded token sequence to an Action. The first token
// selects a builtin from the fixed grammar below; anything unrecognized is
// deliberately forwarded as an external program invocation. A recognized
// builtin with bad arguments resolves to a UsageError, never to external
// execution.
//
//	exit | quit                      no arguments
//	help                             no arguments
//	dump                             no arguments
//	cd [DIR]                         DIR defaults to the home directory
//	echo [ARGS...]
//	var [-d|--delete] NAME [VALUE]
//	register | reg DIRS...
//	unregister | unreg DIRS...
//	register-file | regfile FILE
//	clear-register | clreg [DIRS...]
func Resolve(tokens []string) Action {
	if len(tokens) == 0 {
		return Continue{}
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "exit", "quit":
		if len(args) != 0 {
			return usage(name, "takes no arguments")
		}
		return Exit{}

	case "help":
		if len(args) != 0 {
			return usage(name, "takes no arguments")
		}
		return PrintHelp{}

	case "dump":
		if len(args) != 0 {
			return usage(name, "takes no arguments")
		}
		return PrintRegistryDump{}

	case "cd":
		switch len(args) {
		case 0:
			return SetWorkingDir{}
		case 1:
			return SetWorkingDir{Dir: args[0]}
		default:
			return usage(name, "takes at most one directory")
		}

	case "echo":
		return Echo{Args: args}

	case "var":
		return resolveVar(args)

	case "register", "reg":
		if len(args) == 0 {
			return usage(name, "requires at least one directory")
		}
		return MutateRegistry{Op: RegistryAdd, Paths: args}

	case "unregister", "unreg":
		if len(args) == 0 {
			return usage(name, "requires at least one directory")
		}
		return MutateRegistry{Op: RegistryRemove, Paths: args}

	case "register-file", "regfile":
		if len(args) != 1 {
			return usage(name, "requires exactly one file")
		}
		return LoadRegistryFromFile{Path: args[0]}

	case "clear-register", "clreg":
		return MutateRegistry{Op: RegistryReset, Paths: args}
	}

	return ExecuteExternal{Argv: tokens}
}

// resolveVar parses the var builtin: one required NAME, an optional VALUE,
// and the -d/--delete flag, which wins over any VALUE.
func resolveVar(args []string) Action {
	var (
		del        bool
		positional []string
	)
	for _, a := range args {
		switch {
		case a == "-d" || a == "--delete":
			del = true
		case strings.HasPrefix(a, "-") && a != "-":
			return usage("var", fmt.Sprintf("unknown flag %q", a))
		default:
			positional = append(positional, a)
		}
	}

	switch {
	case len(positional) == 0:
		return usage("var", "requires a variable name")
	case len(positional) > 2:
		return usage("var", "takes a name and at most one value")
	case del:
		return UnsetEnv{Name: positional[0]}
	}

	value := ""
	if len(positional) == 2 {
		value = positional[1]
	}
	return SetEnv{Name: positional[0], Value: value}
}

func usage(builtin, msg string) Action {
	return UsageError{Message: fmt.Sprintf("%s: %s", builtin, msg)}
}
