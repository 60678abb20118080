// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"fansh-cli/internal/issue"
)

func TestWarningMessageRendersSuggestions(t *testing.T) {
	err := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("/tmp/config.toml").
		WithSuggestion("Check the TOML syntax of the config file").
		Wrap(errors.New("unexpected token")).
		BuildError()

	msg := warningMessage(err)

	if !strings.Contains(msg, "Warning: ") {
		t.Errorf("missing warning prefix:\n%s", msg)
	}
	if !strings.Contains(msg, "failed to load configuration: /tmp/config.toml") {
		t.Errorf("missing operation and resource:\n%s", msg)
	}
	if !strings.Contains(msg, "Check the TOML syntax of the config file") {
		t.Errorf("suggestion dropped from warning:\n%s", msg)
	}
}

func TestWarningMessageWrappedActionableError(t *testing.T) {
	inner := issue.NewErrorContext().
		WithOperation("parse configuration").
		WithSuggestion("Run 'fansh config path' to see which file is read").
		BuildError()

	msg := warningMessage(errors.Join(inner))

	if !strings.Contains(msg, "Run 'fansh config path' to see which file is read") {
		t.Errorf("suggestion not found through the error chain:\n%s", msg)
	}
}

func TestWarningMessagePlainError(t *testing.T) {
	msg := warningMessage(errors.New("disk on fire"))

	if !strings.Contains(msg, "disk on fire") {
		t.Errorf("plain error lost its message:\n%s", msg)
	}
	if strings.Contains(msg, "•") {
		t.Errorf("plain error grew suggestion bullets:\n%s", msg)
	}
}
