// Package logging wraps pterm's level printers behind a small global
// logger. There is only one mode here (CLI) since this engine has no LSP
// surface to dual-mode against.
package logging

import (
	"sync"

	"github.com/pterm/pterm"
)

func init() {
	pterm.Info = *pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(pterm.FgBlue),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Success = *pterm.Success.WithPrefix(pterm.Prefix{
		Text:  "DONE",
		Style: pterm.NewStyle(pterm.FgGreen),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Warning = *pterm.Warning.WithPrefix(pterm.Prefix{
		Text:  "WARN",
		Style: pterm.NewStyle(pterm.FgYellow),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Debug = *pterm.Debug.WithPrefix(pterm.Prefix{
		Text:  "DEBUG",
		Style: pterm.NewStyle(pterm.FgCyan),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)
}

var (
	mu      sync.Mutex
	verbose bool
)

// SetVerbose toggles whether Debug messages are emitted.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func isVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// Debug prints a debug-level message, suppressed unless verbose logging is
// enabled.
func Debug(format string, args ...any) {
	if !isVerbose() {
		return
	}
	pterm.Debug.Printfln(format, args...)
}

// Info prints an info-level message.
func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

// Success prints a success-level message.
func Success(format string, args ...any) {
	pterm.Success.Printfln(format, args...)
}

// Warning prints a warning-level message.
func Warning(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}
