// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// countStyle colors the registered-directory count.
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	// cwdStyle colors the working directory.
	cwdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// prompt renders the prompt: "(<count>) <cwd>> " with the home directory
// abbreviated to ~, or "... " while a continuation is buffered.
func (r *REPL) prompt() string {
	if r.sess.HasPending() {
		return "... "
	}

	var b strings.Builder
	b.WriteString(countStyle.Render(fmt.Sprintf("(%d) ", r.reg.Count())))
	b.WriteString(cwdStyle.Render(r.prettyCwd()))
	b.WriteString("> ")
	return b.String()
}

// prettyCwd abbreviates the home directory prefix of the session working
// directory to ~.
func (r *REPL) prettyCwd() string {
	cwd := r.sess.Cwd()
	home := r.sess.HomeDir()
	if home != "" && strings.HasPrefix(cwd, home) {
		return "~" + cwd[len(home):]
	}
	return cwd
}
