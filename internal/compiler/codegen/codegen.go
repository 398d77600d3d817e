// Package codegen emits backend (Erlang) source text for a typed module. It
// is a narrow, deterministic transform: given a TypedModule it produces the
// module's .erl text and one .hrl-style record header per declared type.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ash-lang/ashc/internal/compiler/ast"
)

// Records returns one (record-name, header-text) pair per record type
// declared in module, public or private, in declaration order.
func Records(module *ast.TypedModule) []struct {
	Name string
	Text string
} {
	var out []struct {
		Name string
		Text string
	}
	for _, stmt := range module.Statements {
		if stmt.Kind != ast.StatementRecord {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "-record(%s, {%s}).\n", stmt.Name, strings.Join(stmt.Fields, ", "))
		out = append(out, struct {
			Name string
			Text string
		}{Name: stmt.Name, Text: b.String()})
	}
	return out
}

// Module renders the module's own backend source text.
func Module(module *ast.TypedModule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-module('%s').\n", module.TypeInfo.ModuleName)

	var exportLines []string
	for _, sig := range module.TypeInfo.Exports {
		exportLines = append(exportLines, fmt.Sprintf("%s/%d", sig.Name, sig.Arity))
	}
	if len(exportLines) > 0 {
		fmt.Fprintf(&b, "-export([%s]).\n", strings.Join(exportLines, ", "))
	}

	for _, stmt := range module.Statements {
		switch stmt.Kind {
		case ast.StatementFunction:
			fmt.Fprintf(&b, "%s() ->\n    ok.\n", stmt.Name)
		case ast.StatementConstant:
			fmt.Fprintf(&b, "%s() ->\n    undefined.\n", stmt.Name)
		}
	}

	return b.String()
}
