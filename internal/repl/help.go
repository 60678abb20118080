// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"github.com/charmbracelet/glamour"

	"fansh-cli/internal/config"
)

// helpMarkdown is the builtin usage reference, rendered by the help builtin.
const helpMarkdown = `# Builtins

| Command | Alias | Usage |
|---|---|---|
| exit | quit | Terminate the shell |
| help | | Display this help message |
| dump | | Print all registered directories |
| cd | | ` + "`cd [DIR]`" + ` - change the working directory (default: home) |
| echo | | ` + "`echo [ARGS...]`" + ` - print all arguments |
| var | | ` + "`var [-d\\|--delete] NAME [VALUE]`" + ` - set or delete environment variables |
| register | reg | ` + "`register DIRS...`" + ` - add directories to the registry |
| unregister | unreg | ` + "`unregister DIRS...`" + ` - remove directories from the registry |
| register-file | regfile | ` + "`register-file FILE`" + ` - add all directories listed in FILE |
| clear-register | clreg | ` + "`clear-register [DIRS...]`" + ` - reset the registry to DIRS |

Anything else is run as an external command in every registered directory.
A line ending in ` + "`\\`" + ` continues on the next line.
`

// renderHelp renders the builtin reference as styled terminal markdown using
// the configured color scheme, falling back to the raw text if rendering
// fails.
func (r *REPL) renderHelp() string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(helpStyle(r.cfg.UI.ColorScheme)),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// helpStyle maps the configured color scheme to a glamour standard style
// name. Anything unrecognized falls back to terminal auto-detection.
func helpStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
