// Package frontend compiles Java source into a resolved syntax tree: it
// parses the unit and attributes it in one call.
package frontend

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/analysis"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/parser"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// tracerName is the default OTel tracer name for the front end.
const tracerName = "astviewer"

// Result is one compiled unit and the queries answering what it resolved to.
type Result struct {
	Unit  *syntax.Unit
	Trees *analysis.Trees
}

// Compiler runs the parser and the analyzer. It is safe for concurrent use.
type Compiler struct {
	parser *parser.Parser

	// Tracer is the OTel tracer for front-end spans.
	// When nil, falls back to otel.Tracer("astviewer").
	Tracer trace.Tracer

	// Logger receives debug records per stage. When nil, slog.Default is used.
	Logger *slog.Logger
}

// New creates a Compiler.
func New() *Compiler {
	return &Compiler{parser: parser.New()}
}

func (c *Compiler) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}

	return otel.Tracer(tracerName)
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.Default()
}

// Compile parses and analyzes src. Syntax errors are not failures: they
// show up as ERRONEOUS trees and in the unit's diagnostics.
func (c *Compiler) Compile(ctx context.Context, filename string, src []byte) (*Result, error) {
	unit, err := c.parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	info, err := c.analyze(ctx, unit)
	if err != nil {
		return nil, err
	}

	return &Result{Unit: unit, Trees: analysis.NewTrees(unit, info)}, nil
}

func (c *Compiler) parse(ctx context.Context, filename string, src []byte) (*syntax.Unit, error) {
	ctx, span := c.tracer().Start(ctx, "frontend.parse",
		trace.WithAttributes(
			attribute.String("file.name", filename),
			attribute.Int("file.size", len(src)),
		))
	defer span.End()

	unit, err := c.parser.Parse(ctx, filename, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")

		return nil, fmt.Errorf("compile %s: %w", filename, err)
	}

	span.SetAttributes(attribute.Int("frontend.diagnostics", len(unit.Diagnostics)))

	log := c.logger()
	log.DebugContext(ctx, "parsed unit", "file", filename, "bytes", len(src))

	if n := len(unit.Diagnostics); n > 0 {
		log.WarnContext(ctx, "source has syntax errors", "file", filename, "diagnostics", n,
			"first", unit.Diagnostics[0].String())
	}

	return unit, nil
}

func (c *Compiler) analyze(ctx context.Context, unit *syntax.Unit) (*analysis.Info, error) {
	ctx, span := c.tracer().Start(ctx, "frontend.analyze",
		trace.WithAttributes(attribute.String("file.name", unit.Filename)))
	defer span.End()

	info, err := analysis.Analyze(ctx, unit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")

		return nil, fmt.Errorf("compile %s: %w", unit.Filename, err)
	}

	span.SetAttributes(
		attribute.Int("frontend.symbols", len(info.Symbols)),
		attribute.Int("frontend.types", len(info.Types)),
	)

	c.logger().DebugContext(ctx, "analyzed unit", "file", unit.Filename,
		"symbols", len(info.Symbols), "types", len(info.Types))

	return info, nil
}
