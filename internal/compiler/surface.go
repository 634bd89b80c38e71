package compiler

import (
	"github.com/merchkit/commerce-mcp/internal/dispatch"
	"github.com/merchkit/commerce-mcp/internal/openapi"
)

// Surface describes one API partition — the privileged admin surface or the
// public store surface. The two surfaces share all compilation logic and
// differ only in this descriptor: the tool-name prefix, the description
// preamble, and the dispatcher carrying the surface's immutable credential.
type Surface struct {
	Name       string
	ToolPrefix string
	Preamble   string
	Dispatcher *dispatch.Dispatcher
}

// toolName derives the exposed tool name from the operation identifier,
// applying the surface's role prefix.
func (s *Surface) toolName(op *openapi.Operation) string {
	return s.ToolPrefix + op.OperationID
}

// toolDescription combines the surface preamble with the operation's
// declared description (empty if none declared).
func (s *Surface) toolDescription(op *openapi.Operation) string {
	return s.Preamble + op.Description
}
