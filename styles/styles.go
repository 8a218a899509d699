// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// init configures lipgloss with the detected color profile so every
// style below degrades to plain text on non-TTY output.
func init() {
	lipgloss.SetColorProfile(ColorProfile())
}

// SetColorsEnabled overrides color detection and re-applies the
// resulting profile to lipgloss, for hosts that carry their own color
// setting.
func SetColorsEnabled(enabled bool) {
	ForceColorsEnabled(enabled)
	lipgloss.SetColorProfile(ColorProfile())
}

// =============================================================================
// COLORS
// =============================================================================

// Cyan - prompts, headers, command names.
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - completion candidates, success.
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors.
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings, interrupts.
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// TextSecondary - descriptions and dimmed detail.
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// Prompt styles the input prompt.
	Prompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Header styles the heading above an alternatives listing.
	Header = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Bullet styles one completion candidate line.
	Bullet = lipgloss.NewStyle().
		Foreground(Emerald)

	// Muted styles descriptions next to candidates.
	Muted = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Error styles diagnostics such as "command not found".
	Error = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Warning styles interrupt notices.
	Warning = lipgloss.NewStyle().
		Foreground(Amber)
)
