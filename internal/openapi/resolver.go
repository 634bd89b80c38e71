package openapi

import "strings"

// schemaRefPrefix is the only reference form consumed: a pointer into the
// document's own components.schemas table.
const schemaRefPrefix = "#/components/schemas/"

// Resolve returns the schema node a possibly-reference node stands for.
// Non-reference nodes are returned unchanged. A reference that cannot be
// resolved — wrong prefix, missing table, or missing entry — returns nil;
// callers must treat nil as "unknown shape" rather than an error, so a
// partially-specified document still compiles.
//
// The returned node may itself be a reference (tables can chain); callers
// that follow chains are responsible for cycle detection.
func (d *Document) Resolve(n *SchemaNode) *SchemaNode {
	if n == nil {
		return nil
	}
	if !n.IsRef() {
		return n
	}
	name := strings.TrimPrefix(n.Ref, schemaRefPrefix)
	if name == n.Ref {
		return nil
	}
	if d.Components.Schemas == nil {
		return nil
	}
	return d.Components.Schemas[name]
}

// RefName returns the table key a reference node points at, or "" for
// non-reference nodes and references outside components.schemas.
func (s *SchemaNode) RefName() string {
	if !s.IsRef() {
		return ""
	}
	name := strings.TrimPrefix(s.Ref, schemaRefPrefix)
	if name == s.Ref {
		return ""
	}
	return name
}
