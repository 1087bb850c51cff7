package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Errors returned by the renderers.
var (
	ErrNilRoot       = errors.New("nil root node")
	ErrUnknownFormat = errors.New("unknown output format")
)

const yamlIndent = 2

// ParseFormat accepts a case-insensitive format name; "" means tree.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatTree:
		return FormatTree, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Document is the serialized form of a tree, shared by JSON and YAML.
type Document struct {
	File string         `json:"file" yaml:"file"`
	Root map[string]any `json:"root" yaml:"root"`
}

// NewDocument wraps root's map form with the file it came from.
func NewDocument(file string, root *node.Node) (Document, error) {
	if root == nil {
		return Document{}, ErrNilRoot
	}

	return Document{File: file, Root: root.ToMap()}, nil
}

// JSON writes the document as indented JSON.
func JSON(w io.Writer, file string, root *node.Node) error {
	doc, err := NewDocument(file, root)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", indentUnit)

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// YAML writes the document as YAML.
func YAML(w io.Writer, file string, root *node.Node) error {
	doc, err := NewDocument(file, root)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}

// Write renders root in the given format.
func Write(w io.Writer, format Format, file string, root *node.Node, opts OutlineOptions) error {
	switch format {
	case FormatTree, "":
		return Outline(w, root, opts)
	case FormatJSON:
		return JSON(w, file, root)
	case FormatYAML:
		return YAML(w, file, root)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
