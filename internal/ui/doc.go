// Package ui styles CLI output with lipgloss.
//
// A single [Palette] backs the package-level helpers ([Title], [Success], [Failure], [Warning], [Help]) used by the
// commands for headers and status lines. lipgloss drops colors automatically when output is not a terminal, so
// piped output stays plain text.
package ui
