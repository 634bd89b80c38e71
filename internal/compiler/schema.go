// Package compiler turns a loaded interface document into callable,
// schema-validated MCP tools: it compiles schema nodes into validator
// fragments, synthesizes one tool per path, and routes flat call arguments
// back into path, query, and body channels at invocation time.
package compiler

import (
	"fmt"

	"github.com/merchkit/commerce-mcp/internal/openapi"
)

// ValidatorNode is the compiled validation counterpart of a schema node:
// a JSON-schema fragment plus the optionality assigned by the surrounding
// context.
type ValidatorNode struct {
	Schema   map[string]any
	Optional bool
}

// SchemaCompiler translates schema nodes from one document into validator
// fragments. Resolution of $ref nodes goes through the document's schema
// table; an unresolvable reference degrades to accept-anything.
type SchemaCompiler struct {
	doc *openapi.Document
}

// NewSchemaCompiler creates a schema compiler bound to a document.
func NewSchemaCompiler(doc *openapi.Document) *SchemaCompiler {
	return &SchemaCompiler{doc: doc}
}

// Compile translates a possibly-reference schema node into a ValidatorNode.
// A nil node, an unresolvable reference, or an unrecognized type all compile
// to an accept-anything validator. A reference cycle in the schema table is
// a configuration error.
func (c *SchemaCompiler) Compile(node *openapi.SchemaNode, optional bool) (ValidatorNode, error) {
	return c.compile(node, optional, map[string]bool{})
}

// compile carries the set of reference names on the current resolution path
// so a table cycle is detected instead of recursing unboundedly.
func (c *SchemaCompiler) compile(node *openapi.SchemaNode, optional bool, seen map[string]bool) (ValidatorNode, error) {
	if node == nil {
		return ValidatorNode{Schema: map[string]any{}, Optional: optional}, nil
	}

	if node.IsRef() {
		if name := node.RefName(); name != "" {
			if seen[name] {
				return ValidatorNode{}, fmt.Errorf("schema reference cycle through %q", name)
			}
			seen[name] = true
			defer delete(seen, name)
		}
		// Unresolvable references behave as an absent schema.
		return c.compile(c.doc.Resolve(node), optional, seen)
	}

	var schema map[string]any

	switch node.Type {
	case "string":
		schema = map[string]any{"type": "string"}
	case "number", "integer":
		// No integer/float distinction at this layer.
		schema = map[string]any{"type": "number"}
	case "boolean":
		schema = map[string]any{"type": "boolean"}
	case "array":
		itemSchema := map[string]any{}
		if node.Items != nil {
			// Array elements, once the array exists, are never optional.
			child, err := c.compile(node.Items, false, seen)
			if err != nil {
				return ValidatorNode{}, err
			}
			itemSchema = child.Schema
		}
		schema = map[string]any{"type": "array", "items": itemSchema}
	case "object":
		properties := map[string]any{}
		var required []string
		if node.Properties != nil {
			for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
				child, err := c.compile(pair.Value, !node.Requires(pair.Key), seen)
				if err != nil {
					return ValidatorNode{}, err
				}
				properties[pair.Key] = child.Schema
				if !child.Optional {
					required = append(required, pair.Key)
				}
			}
		}
		// An object with no declared properties is still an object
		// validator, not accept-anything.
		schema = map[string]any{"type": "object", "properties": properties}
		if len(required) > 0 {
			schema["required"] = required
		}
	default:
		schema = map[string]any{}
	}

	if node.Description != "" {
		if _, typed := schema["type"]; typed {
			schema["description"] = node.Description
		}
	}

	return ValidatorNode{Schema: schema, Optional: optional}, nil
}
