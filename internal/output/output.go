// Package output prints styled, user-facing CLI messages.
//
// Diagnostics meant for debugging go through the logger package; this
// package is for the handful of lines a user reads after running nest:
//
//	output.Success("Generated 3 makefiles")
//	output.Error("gmake: unknown project kind 'lib'")
//	output.Step("make CONFIG=Release")
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetOutput redirects all messages; nil restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Success prints a completed-operation message in green.
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✓ "+msg))
}

// Error prints a failure message in red.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("✗ "+msg))
}

// Warn prints a non-fatal problem in yellow.
func Warn(msg string) {
	fmt.Fprintln(out, warnStyle.Render("! "+msg))
}

// Info prints a status line in cyan.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ "+msg))
}

// Step prints an indented sub-item in gray.
//
//	output.Info("Next steps:")
//	output.Step("make CONFIG=Debug")
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose prints msg only when verbose mode is on.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("… "+msg))
	}
}
