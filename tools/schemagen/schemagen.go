// Package main generates the JSON schema for astviewer dumps from the node
// kinds, so the schema enum never drifts from the Kind constants.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

// Schema is the subset of draft-07 JSON Schema the dump format needs.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	ID                   string             `json:"$id,omitempty"`
	Title                string             `json:"title,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Type                 any                `json:"type,omitempty"`
	Const                string             `json:"const,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Minimum              *int               `json:"minimum,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AllOf                []*Schema          `json:"allOf,omitempty"`
	OneOf                []*Schema          `json:"oneOf,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`
}

const (
	nodeRef    = "#/definitions/node"
	schemaMode = 0o644
)

var output string

func main() {
	flag.StringVar(&output, "o", "pkg/astview/schema/astview-schema.json", "Output file for the schema")
	flag.Parse()

	data, err := json.MarshalIndent(generateSchema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, append(data, '\n'), schemaMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d kinds\n", output, len(node.Kinds()))
}

func generateSchema() *Schema {
	return &Schema{
		Schema:               "http://json-schema.org/draft-07/schema#",
		ID:                   "https://github.com/Sumatoshi-tech/astviewer/astview-schema.json",
		Title:                "astviewer dump",
		Type:                 "object",
		Required:             []string{"file", "root"},
		AdditionalProperties: closed(),
		Properties: map[string]*Schema{
			"file": {Type: "string"},
			"root": {AllOf: []*Schema{
				{Ref: nodeRef},
				{Properties: map[string]*Schema{"kind": {Const: node.KindCompilationUnit.String()}}},
			}},
		},
		Definitions: map[string]*Schema{"node": nodeSchema()},
	}
}

func nodeSchema() *Schema {
	kinds := make([]string, 0, len(node.Kinds()))
	for _, k := range node.Kinds() {
		kinds = append(kinds, k.String())
	}

	return &Schema{
		Type:                 "object",
		Required:             []string{node.KeyKind, node.KeySymbol, node.KeyType, node.KeySpan, node.KeyChildren},
		AdditionalProperties: closed(),
		Properties: map[string]*Schema{
			node.KeyKind: {Enum: kinds},
			node.KeySymbol: nullable(object(map[string]*Schema{
				node.KeyName: {Type: "string"},
				node.KeyText: {Type: "string"},
			}, node.KeyName, node.KeyText)),
			node.KeyType: {Type: []string{"string", "null"}},
			node.KeySpan: nullable(object(map[string]*Schema{
				node.KeyStart: offset(),
				node.KeyEnd:   offset(),
			}, node.KeyStart, node.KeyEnd)),
			node.KeyChildren: {Type: "array", Items: &Schema{Ref: nodeRef}},
		},
	}
}

func object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Required: required, AdditionalProperties: closed(), Properties: props}
}

func nullable(s *Schema) *Schema {
	return &Schema{OneOf: []*Schema{{Type: "null"}, s}}
}

func offset() *Schema {
	zero := 0

	return &Schema{Type: "integer", Minimum: &zero}
}

func closed() *bool {
	f := false

	return &f
}
