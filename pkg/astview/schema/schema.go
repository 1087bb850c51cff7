// Package schema validates JSON dumps produced by the json renderer.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

//go:generate go run ../../../tools/schemagen -o astview-schema.json

// FS contains the embedded dump schema.
//
//go:embed astview-schema.json
var FS embed.FS

// SchemaFile is the name of the schema inside FS.
const SchemaFile = "astview-schema.json"

// ErrInvalidJSON is returned when the input is not JSON at all.
var ErrInvalidJSON = errors.New("invalid json")

// Issue is one validation failure.
type Issue struct {
	Field       string
	Description string
}

func (i Issue) String() string { return i.Field + ": " + i.Description }

// Result is the outcome of Validate.
type Result struct {
	Issues []Issue
	Nodes  int
}

// Valid reports whether no issue was found.
func (r *Result) Valid() bool { return len(r.Issues) == 0 }

// Loader returns the embedded schema, or the file at path when path is set.
func Loader(path string) (gojsonschema.JSONLoader, error) {
	if path != "" {
		return gojsonschema.NewReferenceLoader("file://" + path), nil
	}

	data, err := FS.ReadFile(SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	return gojsonschema.NewBytesLoader(data), nil
}

// Validate checks data against the schema at schemaPath (embedded when
// empty), then checks that every span is ordered.
func Validate(data []byte, schemaPath string) (*Result, error) {
	var doc any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	err := dec.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	loader, err := Loader(schemaPath)
	if err != nil {
		return nil, err
	}

	res, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &Result{}

	for _, verr := range res.Errors() {
		out.Issues = append(out.Issues, Issue{Field: verr.Field(), Description: verr.Description()})
	}

	if !res.Valid() {
		return out, nil
	}

	if m, ok := doc.(map[string]any); ok {
		walkSpans(m["root"], "root", out)
	}

	return out, nil
}

func walkSpans(v any, field string, out *Result) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}

	out.Nodes++

	if span, isMap := m[node.KeySpan].(map[string]any); isMap {
		start, _ := span[node.KeyStart].(json.Number)
		end, _ := span[node.KeyEnd].(json.Number)

		if s, e, ordered := offsets(start, end); !ordered {
			out.Issues = append(out.Issues, Issue{
				Field:       field + "." + node.KeySpan,
				Description: fmt.Sprintf("end %d is before start %d", e, s),
			})
		}
	}

	children, _ := m[node.KeyChildren].([]any)
	for i, child := range children {
		walkSpans(child, fmt.Sprintf("%s.%s.%d", field, node.KeyChildren, i), out)
	}
}

func offsets(start, end json.Number) (int64, int64, bool) {
	s, err := start.Int64()
	if err != nil {
		return 0, 0, true
	}

	e, err := end.Int64()
	if err != nil {
		return 0, 0, true
	}

	return s, e, s <= e
}
