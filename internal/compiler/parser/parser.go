// Package parser turns Ash source text into an untyped ast.Module plus the
// detached comments the Modules layer uses to attach documentation. It
// understands only top-level shape: imports, and public/private function,
// type, and constant declarations. Expression bodies are treated as opaque,
// brace-balanced spans — this engine's job is dependency extraction and
// exported-symbol discovery, not full semantic parsing.
package parser

import (
	"fmt"

	"github.com/ash-lang/ashc/internal/compiler/ast"
	"github.com/ash-lang/ashc/internal/compiler/lexer"
)

// Comment is one detached `//` comment with its source span.
type Comment struct {
	Text  string
	Start int
	End   int
}

// Error reports a grammar violation at a specific offset.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// StripExtra tokenizes src and separates `//` comments from the remaining
// token stream, mirroring the grammar's own preprocessing step.
func StripExtra(src string) (tokens []lexer.Token, comments []Comment) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		switch tok.Type {
		case lexer.COMMENT:
			comments = append(comments, Comment{Text: tok.Literal, Start: tok.Start, End: tok.End})
		case lexer.NEWLINE:
			// kept in the token stream: peek skips it, and skipToNewline
			// uses it to find the end of a declaration without a body.
			tokens = append(tokens, tok)
		default:
			tokens = append(tokens, tok)
		}
	}
	return tokens, comments
}

// Parser consumes the token stream StripExtra produces.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New returns a Parser over an already-tokenized stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() lexer.Token {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type == lexer.NEWLINE {
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() lexer.Token {
	t := p.peek()
	if t.Type != lexer.EOF {
		p.pos++
	}
	return t
}

// Parse builds an untyped module from the token stream. The returned
// module's Name is left empty — the Modules layer overwrites it from the
// file's path, since the source text is never authoritative for identity.
func Parse(tokens []lexer.Token) (*ast.Module, error) {
	p := New(tokens)
	mod := &ast.Module{}

	for {
		tok := p.peek()
		if tok.Type == lexer.EOF {
			break
		}
		if tok.Type != lexer.KEYWORD && tok.Type != lexer.IDENT {
			return nil, &Error{Offset: tok.Start, Msg: fmt.Sprintf("unexpected token %q", tok.Literal)}
		}

		switch tok.Literal {
		case "import":
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			mod.Statements = append(mod.Statements, imp)
		case "pub":
			p.next()
			stmt, err := p.parseDecl(true)
			if err != nil {
				return nil, err
			}
			mod.Statements = append(mod.Statements, stmt)
		case "fn", "type", "const":
			stmt, err := p.parseDecl(false)
			if err != nil {
				return nil, err
			}
			mod.Statements = append(mod.Statements, stmt)
		default:
			return nil, &Error{Offset: tok.Start, Msg: fmt.Sprintf("unexpected token %q", tok.Literal)}
		}
	}

	return mod, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	start := p.next() // "import"
	var segs []string
	var end int
	for {
		seg := p.next()
		if seg.Type != lexer.IDENT {
			return ast.Statement{}, &Error{Offset: seg.Start, Msg: "expected module path segment"}
		}
		segs = append(segs, seg.Literal)
		end = seg.End
		if p.peek().Type == lexer.SLASH {
			p.next()
			continue
		}
		break
	}
	name := joinSlash(segs)
	return ast.Statement{
		Kind:     ast.StatementImport,
		Name:     name,
		Location: ast.SrcSpan{Start: start.Start, End: end},
	}, nil
}

func (p *Parser) parseDecl(public bool) (ast.Statement, error) {
	kw := p.next() // fn | type | const
	nameTok := p.next()
	if nameTok.Type != lexer.IDENT {
		return ast.Statement{}, &Error{Offset: nameTok.Start, Msg: "expected declaration name"}
	}

	kind := ast.StatementFunction
	switch kw.Literal {
	case "type":
		kind = ast.StatementRecord
	case "const":
		kind = ast.StatementConstant
	}

	var fields []string
	if p.peek().Type == lexer.LPAREN || p.peek().Type == lexer.LBRACE {
		fields = p.collectFieldNames()
		if err := p.skipBalancedBody(); err != nil {
			return ast.Statement{}, err
		}
	} else {
		p.skipToNewline()
	}

	end := kw.End
	if p.pos > 0 {
		end = p.tokens[p.pos-1].End
	}

	return ast.Statement{
		Kind:     kind,
		Name:     nameTok.Literal,
		Location: ast.SrcSpan{Start: kw.Start, End: end},
		Fields:   fields,
		Public:   public,
	}, nil
}

// collectFieldNames scans a balanced ( or { group for bare `ident:` pairs,
// used to recover record field names for codegen's .hrl emission. It does
// not advance the parser; skipBalancedBody does the actual consumption.
func (p *Parser) collectFieldNames() []string {
	var fields []string
	depth := 0
	opened := false
	for i := p.pos; i < len(p.tokens); i++ {
		t := p.tokens[i]
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE:
			depth++
			opened = true
		case lexer.RPAREN, lexer.RBRACE:
			depth--
			if opened && depth == 0 {
				return fields
			}
		case lexer.IDENT:
			if depth == 1 && i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.COLON {
				fields = append(fields, t.Literal)
			}
		}
	}
	return fields
}

func (p *Parser) skipBalancedBody() error {
	open := p.next()
	if open.Type != lexer.LPAREN && open.Type != lexer.LBRACE {
		return &Error{Offset: open.Start, Msg: "expected ( or {"}
	}
	openT, closeT := lexer.LPAREN, lexer.RPAREN
	if open.Type == lexer.LBRACE {
		openT, closeT = lexer.LBRACE, lexer.RBRACE
	}
	depth := 1
	for depth > 0 {
		t := p.next()
		if t.Type == lexer.EOF {
			return &Error{Offset: open.Start, Msg: "unterminated block"}
		}
		switch t.Type {
		case openT:
			depth++
		case closeT:
			depth--
		}
	}
	// A `(` parameter list may be followed by a `{ ... }` body.
	if p.peek().Type == lexer.LBRACE {
		return p.skipBalancedBody()
	}
	return nil
}

func (p *Parser) skipToNewline() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type != lexer.NEWLINE {
		p.pos++
	}
}

func joinSlash(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// TakeBefore splits comments into the prefix whose End offset is <= cutoff
// and the remainder, mirroring the grammar's doc-comment attachment scan.
func TakeBefore(comments []Comment, cutoff int) (prefix []Comment, rest []Comment) {
	i := 0
	for i < len(comments) && comments[i].End <= cutoff {
		i++
	}
	return comments[:i], comments[i:]
}
