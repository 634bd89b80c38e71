// Package openapi holds the subset of an OpenAPI interface document that
// commerce-mcp consumes: paths, operations, parameters, request bodies, and
// the components.schemas reference table. Documents are loaded once at
// startup and treated as immutable for the process lifetime.
package openapi

import (
	"encoding/json"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// jsonContentType is the only request-body content type recognized.
const jsonContentType = "application/json"

// Document is a parsed interface document for one API surface.
type Document struct {
	// Paths preserves the source document's key order so compiled tool
	// sequences are stable across runs.
	Paths      *orderedmap.OrderedMap[string, *PathItem] `json:"paths"`
	Components Components                                `json:"components"`
}

// Components holds the shared schema reference table.
type Components struct {
	Schemas map[string]*SchemaNode `json:"schemas"`
}

// PathItem holds at most one operation per supported HTTP method.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation returns the operation declared for the given lowercase method,
// or nil.
func (pi *PathItem) Operation(method string) *Operation {
	switch method {
	case "get":
		return pi.Get
	case "post":
		return pi.Post
	case "delete":
		return pi.Delete
	default:
		return nil
	}
}

// Operation is one callable backend operation.
type Operation struct {
	OperationID string       `json:"operationId"`
	Description string       `json:"description,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
}

// Parameter declares one operation parameter. Location is one of
// "path", "query", or "header"; header parameters never reach tool input.
type Parameter struct {
	Name   string      `json:"name"`
	In     string      `json:"in"`
	Schema *SchemaNode `json:"schema,omitempty"`
}

// RequestBody declares an operation request body keyed by content type.
type RequestBody struct {
	Content map[string]MediaType `json:"content"`
}

// MediaType wraps the schema for one content type.
type MediaType struct {
	Schema *SchemaNode `json:"schema,omitempty"`
}

// JSONSchema returns the application/json body schema, or nil when the
// body declares no JSON content.
func (rb *RequestBody) JSONSchema() *SchemaNode {
	if rb == nil {
		return nil
	}
	return rb.Content[jsonContentType].Schema
}

// SchemaNode is one schema fragment: either a reference into the
// components table or a direct node with a type and type-specific fields.
type SchemaNode struct {
	Ref         string                                      `json:"$ref,omitempty"`
	Type        string                                      `json:"type,omitempty"`
	Description string                                      `json:"description,omitempty"`
	Items       *SchemaNode                                 `json:"items,omitempty"`
	Properties  *orderedmap.OrderedMap[string, *SchemaNode] `json:"properties,omitempty"`
	Required    []string                                    `json:"required,omitempty"`
}

// IsRef reports whether the node is a reference into the schema table.
func (s *SchemaNode) IsRef() bool {
	return s != nil && s.Ref != ""
}

// Requires reports whether the named property appears in the node's
// required list.
func (s *SchemaNode) Requires(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Load reads and parses an interface document from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface document %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interface document %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes an interface document from raw JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		doc.Paths = orderedmap.New[string, *PathItem]()
	}
	return &doc, nil
}
