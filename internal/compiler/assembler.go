package compiler

import (
	"github.com/merchkit/commerce-mcp/internal/common"
)

// ToolSet is an ordered sequence of compiled tools.
type ToolSet []*Tool

// CompileDocument compiles every path in the compiler's document, in the
// document's own key order. Paths declaring no supported method are
// skipped; any other compile failure aborts the whole document.
func (c *Compiler) CompileDocument() (ToolSet, error) {
	set := make(ToolSet, 0, c.doc.Paths.Len())
	for pair := c.doc.Paths.Oldest(); pair != nil; pair = pair.Next() {
		tool, err := c.CompileTool(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		if tool == nil {
			continue
		}
		set = append(set, tool)
	}
	c.logger.Info().
		Str("surface", c.surface.Name).
		Int("tools", len(set)).
		Msg("compiled interface document")
	return set, nil
}

// Merge concatenates tool sets in order. Duplicate names across sets are
// preserved, not merged; callers surface them via DuplicateNames.
func Merge(sets ...ToolSet) ToolSet {
	var merged ToolSet
	for _, s := range sets {
		merged = append(merged, s...)
	}
	return merged
}

// AllowList controls which compiled tools are exposed to the registry.
type AllowList struct {
	AllowAll bool
	Names    []string
}

// Filter applies the allow-list: with filtering enabled and a non-empty
// name set, only listed tools are retained, in their original relative
// order; otherwise the set passes through unmodified.
func (ts ToolSet) Filter(allow AllowList) ToolSet {
	if allow.AllowAll || len(allow.Names) == 0 {
		return ts
	}
	allowed := make(map[string]bool, len(allow.Names))
	for _, name := range allow.Names {
		allowed[name] = true
	}
	filtered := make(ToolSet, 0, len(ts))
	for _, t := range ts {
		if allowed[t.Name] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// DuplicateNames returns tool names appearing more than once, in first-seen
// order. Duplicates are legal but ambiguous at registration time, so they
// are reported rather than silently accepted.
func (ts ToolSet) DuplicateNames() []string {
	counts := make(map[string]int, len(ts))
	for _, t := range ts {
		counts[t.Name]++
	}
	var dups []string
	reported := make(map[string]bool)
	for _, t := range ts {
		if counts[t.Name] > 1 && !reported[t.Name] {
			dups = append(dups, t.Name)
			reported[t.Name] = true
		}
	}
	return dups
}

// WarnDuplicates logs one warning per duplicated tool name.
func (ts ToolSet) WarnDuplicates(logger *common.Logger) {
	for _, name := range ts.DuplicateNames() {
		logger.Warn().
			Str("name", name).
			Msg("duplicate tool name across surfaces; registration is ambiguous")
	}
}
