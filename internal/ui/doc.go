// Package ui styles operator-facing console output with lipgloss.
//
// A [Palette] carries the named styles (title, ok, err, warn, help) used for status lines and
// renders the account listing as a table via [Palette.UserTable].
package ui
