package compiler

import (
	"testing"

	"github.com/merchkit/commerce-mcp/internal/common"
	"github.com/merchkit/commerce-mcp/internal/dispatch"
	"github.com/merchkit/commerce-mcp/internal/openapi"
)

func mustParseDoc(t *testing.T, data string) *openapi.Document {
	t.Helper()
	doc, err := openapi.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// storeSurface builds an unprefixed surface pointed at the given backend.
func storeSurface(backendURL string) *Surface {
	return &Surface{
		Name:       "store",
		Preamble:   "Store API: ",
		Dispatcher: dispatch.NewDispatcher(backendURL, "test-key", nil, common.NewSilentLogger()),
	}
}

// adminSurface builds a prefixed surface pointed at the given backend.
func adminSurface(backendURL string) *Surface {
	return &Surface{
		Name:       "admin",
		ToolPrefix: "admin_",
		Preamble:   "Admin API: ",
		Dispatcher: dispatch.NewDispatcher(backendURL, "admin-token", nil, common.NewSilentLogger()),
	}
}

func testCompiler(doc *openapi.Document, surface *Surface) *Compiler {
	return NewCompiler(doc, surface, common.NewSilentLogger())
}
