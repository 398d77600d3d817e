package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// PrettyPrint renders err to w in the engine's one error style, used
// identically by the one-shot build path and the watcher's non-fatal error
// path.
func PrettyPrint(w io.Writer, err error) {
	rep, ok := AsReport(err)
	if !ok {
		pterm.Error.WithWriter(w).Println(err.Error())
		return
	}

	header := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("%s", rep.Code)
	line := header
	if rep.Path != "" {
		line += " " + pterm.NewStyle(pterm.FgCyan).Sprintf("%s", rep.Path)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, indent(rep.Message))

	if src, span, ok := sourceContext(err); ok {
		fmt.Fprintln(w, indent(excerpt(src, span)))
	}
}

func sourceContext(err error) (string, Span, bool) {
	switch e := err.(type) {
	case *Parse:
		return e.Src, Span{}, e.Src != ""
	case *Type:
		return e.Src, Span{}, e.Src != ""
	case *UnknownImport:
		return e.Src, e.Span, e.Src != ""
	}
	return "", Span{}, false
}

func excerpt(src string, span Span) string {
	if span.End == 0 || span.End > len(src) {
		span.End = len(src)
	}
	if span.Start > span.End {
		span.Start = span.End
	}
	start := span.Start
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := span.End
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return strings.TrimRight(src[start:end], "\n")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
