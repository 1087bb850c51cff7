// Package parser turns Java source into syntax trees using the tree-sitter
// Java grammar.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/java"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Sentinel errors for parsing.
var (
	ErrNoRootNode = errors.New("parser returned no root node")
	errPoolType   = errors.New("unexpected parser pool entry")
)

// nodeTypeError is the tree-sitter type of a recovery node.
const nodeTypeError = "ERROR"

//nolint:gochecknoglobals // The grammar is loaded once per process.
var (
	languageOnce sync.Once
	language     *sitter.Language
)

func javaLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(java.GetLanguage())
	})

	return language
}

// Parser parses Java compilation units. It is safe for concurrent use;
// tree-sitter parsers are pooled.
type Parser struct {
	pool sync.Pool
}

// New creates a Parser.
func New() *Parser {
	lang := javaLanguage()

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse parses src into a unit. Syntax errors do not fail the parse: they
// become ERRONEOUS trees and unit diagnostics.
func (p *Parser) Parse(ctx context.Context, filename string, src []byte) (*syntax.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("parse %s: %w", filename, ErrNoRootNode)
	}

	l := &lowerer{src: src}

	return &syntax.Unit{
		Filename:    filename,
		Source:      src,
		Root:        l.unit(root),
		Diagnostics: collectDiagnostics(root),
	}, nil
}

// collectDiagnostics reports recovery nodes and zero-width tokens the
// parser inserted.
func collectDiagnostics(root sitter.Node) []syntax.Diagnostic {
	var diags []syntax.Diagnostic

	var visit func(n sitter.Node, isRoot bool)

	visit = func(n sitter.Node, isRoot bool) {
		switch {
		case n.Type() == nodeTypeError:
			diags = append(diags, diagnosticAt(n, "syntax error"))
		case !isRoot && n.ChildCount() == 0 && n.StartByte() == n.EndByte():
			diags = append(diags, diagnosticAt(n, "missing "+n.Type()))
		}

		for i := range n.ChildCount() {
			visit(n.Child(i), false)
		}
	}

	visit(root, true)

	return diags
}

func diagnosticAt(n sitter.Node, message string) syntax.Diagnostic {
	point := n.StartPoint()

	return syntax.Diagnostic{
		Message: message,
		Pos:     int(n.StartByte()),
		End:     int(n.EndByte()),
		Line:    int(point.Row) + 1,
		Column:  int(point.Column) + 1,
	}
}
