// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across CLI output.
const (
	// ColorPrimary is purple - used for titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorWarning is amber - used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
)

// Base styles built from the color palette.
var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// WarningStyle is for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)
