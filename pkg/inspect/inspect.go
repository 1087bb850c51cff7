// Package inspect runs the whole pipeline for one Java file: it reads the
// file, compiles it and builds the node tree.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview"
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
)

const (
	tracerName = "astviewer"
	javaLang   = "Java"

	// StdinName is the file name that selects standard input.
	StdinName = "-"
)

// Sentinel errors.
var (
	ErrRead     = errors.New("cannot read source")
	ErrTooLarge = errors.New("source exceeds size limit")
	ErrNotJava  = errors.New("not a java source")
	ErrBinary   = errors.New("binary content")
)

// Result is one inspected file.
type Result struct {
	Unit   *syntax.Unit
	Root   *node.Node
	File   string
	Report astview.Report
}

// Source returns the bytes the tree's spans index into.
func (r *Result) Source() []byte { return r.Unit.Source }

// Diagnostics returns the syntax errors recovered from while parsing.
func (r *Result) Diagnostics() []syntax.Diagnostic { return r.Unit.Diagnostics }

// Inspector reads, compiles and builds. The zero value is not usable; call New.
type Inspector struct {
	compiler *frontend.Compiler

	// Tracer is the OTel tracer for pipeline spans.
	// When nil, falls back to otel.Tracer("astviewer").
	Tracer trace.Tracer

	// Logger receives stage records. When nil, slog.Default is used.
	Logger *slog.Logger

	// Metrics records builds and diagnostics. Nil disables recording.
	Metrics *observability.BuildMetrics

	// MaxBytes rejects larger sources. Zero means unlimited.
	MaxBytes uint64

	// Stdin is read when the file name is StdinName. Nil means os.Stdin.
	Stdin io.Reader
}

// New creates an Inspector whose front end shares tracer and logger.
func New(tracer trace.Tracer, logger *slog.Logger) *Inspector {
	compiler := frontend.New()
	compiler.Tracer = tracer
	compiler.Logger = logger

	return &Inspector{compiler: compiler, Tracer: tracer, Logger: logger}
}

func (in *Inspector) tracer() trace.Tracer {
	if in.Tracer != nil {
		return in.Tracer
	}

	return otel.Tracer(tracerName)
}

func (in *Inspector) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}

	return slog.Default()
}

// File reads path, or standard input for StdinName, and inspects it.
func (in *Inspector) File(ctx context.Context, path string) (*Result, error) {
	src, err := in.read(ctx, path)
	if err != nil {
		return nil, err
	}

	return in.Source(ctx, path, src)
}

// Source inspects src as if it were read from name.
func (in *Inspector) Source(ctx context.Context, name string, src []byte) (*Result, error) {
	ctx = observability.WithSourceFile(ctx, name)
	start := time.Now()

	res, err := in.inspect(ctx, name, src)

	status := observability.StatusOK
	nodes := 0

	if err != nil {
		status = observability.StatusError
	} else {
		nodes = res.Report.Nodes
	}

	in.Metrics.RecordBuild(ctx, status, nodes, time.Since(start))

	return res, err
}

func (in *Inspector) inspect(ctx context.Context, name string, src []byte) (*Result, error) {
	err := checkLanguage(name, src)
	if err != nil {
		return nil, err
	}

	compiled, err := in.compiler.Compile(ctx, name, src)
	if err != nil {
		return nil, err
	}

	in.Metrics.RecordDiagnostics(ctx, len(compiled.Unit.Diagnostics))

	root, report, err := in.build(ctx, compiled)
	if err != nil {
		return nil, err
	}

	return &Result{File: name, Unit: compiled.Unit, Root: root, Report: report}, nil
}

func (in *Inspector) read(ctx context.Context, path string) ([]byte, error) {
	_, span := in.tracer().Start(ctx, "inspect.read",
		trace.WithAttributes(attribute.String(observability.AttrFileName, path)))
	defer span.End()

	src, err := in.readAll(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")

		return nil, err
	}

	span.SetAttributes(attribute.Int("file.size", len(src)))

	return src, nil
}

func (in *Inspector) readAll(path string) ([]byte, error) {
	var r io.Reader

	if path == StdinName {
		r = in.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		defer f.Close()

		r = f
	}

	if in.MaxBytes > 0 {
		r = io.LimitReader(r, int64(in.MaxBytes)+1) //nolint:gosec // Limits come from config and fit int64.
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	if in.MaxBytes > 0 && uint64(len(src)) > in.MaxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, path, in.MaxBytes)
	}

	return src, nil
}

func (in *Inspector) build(ctx context.Context, compiled *frontend.Result) (*node.Node, astview.Report, error) {
	ctx, span := in.tracer().Start(ctx, "astview.build",
		trace.WithAttributes(attribute.String(observability.AttrFileName, compiled.Unit.Filename)))
	defer span.End()

	builder := &astview.Builder{Logger: in.logger()}

	root, report, err := builder.Build(compiled.Unit, compiled.Trees)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")

		return nil, astview.Report{}, fmt.Errorf("build %s: %w", compiled.Unit.Filename, err)
	}

	span.SetAttributes(
		attribute.Int("astview.nodes", report.Nodes),
		attribute.Int("astview.elided", report.Elided),
		attribute.Int("astview.synthetic", report.Synthetic),
	)

	in.logger().DebugContext(ctx, "built tree",
		"nodes", report.Nodes, "elided", report.Elided, "synthetic", report.Synthetic,
		"collapsed", report.Collapsed)

	return root, report, nil
}

// checkLanguage rejects binary content and files whose name identifies
// another language. Names enry does not know are accepted.
func checkLanguage(name string, src []byte) error {
	if enry.IsBinary(src) {
		return fmt.Errorf("%w: %s", ErrBinary, name)
	}

	if name == StdinName {
		return nil
	}

	lang := enry.GetLanguage(filepath.Base(name), nil)
	if lang != "" && lang != javaLang {
		return fmt.Errorf("%w: %s looks like %s", ErrNotJava, name, lang)
	}

	return nil
}
