package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/merchkit/commerce-mcp/internal/common"
	"github.com/merchkit/commerce-mcp/internal/openapi"
)

// MethodPrecedence is the operation-selection policy: when a path declares
// several methods, only the first match in this order becomes a tool and
// the rest are silently ignored. A path with both get and post yields
// exactly one tool, for get.
var MethodPrecedence = []string{"get", "post", "delete"}

// Tool is one named, schema-validated, invocable backend operation ready
// for registration with the MCP server.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     server.ToolHandlerFunc
}

// Compiler synthesizes tools for one surface of one document.
type Compiler struct {
	doc     *openapi.Document
	surface *Surface
	schemas *SchemaCompiler
	logger  *common.Logger
}

// NewCompiler creates a tool compiler for a document/surface pair.
func NewCompiler(doc *openapi.Document, surface *Surface, logger *common.Logger) *Compiler {
	return &Compiler{
		doc:     doc,
		surface: surface,
		schemas: NewSchemaCompiler(doc),
		logger:  logger,
	}
}

// selectOperation picks the single operation a path exposes, per
// MethodPrecedence.
func selectOperation(item *openapi.PathItem) (*openapi.Operation, string) {
	for _, method := range MethodPrecedence {
		if op := item.Operation(method); op != nil {
			return op, method
		}
	}
	return nil, ""
}

// CompileTool produces the tool for one path, or (nil, nil) when the path
// declares no supported method. A missing operationId is a fatal error:
// a nameless tool cannot be registered.
func (c *Compiler) CompileTool(pathTemplate string, item *openapi.PathItem) (*Tool, error) {
	op, method := selectOperation(item)
	if op == nil {
		return nil, nil
	}
	if op.OperationID == "" {
		return nil, fmt.Errorf("operation %s %s has no operationId", strings.ToUpper(method), pathTemplate)
	}

	params := classifyParameters(op.Parameters)

	properties := make(map[string]any)
	var required []string

	// Parameters compile optional: only body schemas carry a required list.
	for _, p := range params {
		vn, err := c.schemas.Compile(p.Schema, true)
		if err != nil {
			return nil, fmt.Errorf("parameter %q of %s: %w", p.Name, pathTemplate, err)
		}
		properties[p.Name] = vn.Schema
	}

	// Request bodies are only inspected for post, and only JSON content.
	bodyFields := make(map[string]bool)
	if method == "post" {
		bodySchema := c.doc.Resolve(op.RequestBody.JSONSchema())
		if bodySchema != nil && bodySchema.Properties != nil {
			for pair := bodySchema.Properties.Oldest(); pair != nil; pair = pair.Next() {
				vn, err := c.schemas.Compile(pair.Value, !bodySchema.Requires(pair.Key))
				if err != nil {
					return nil, fmt.Errorf("body field %q of %s: %w", pair.Key, pathTemplate, err)
				}
				// Body fields overwrite same-named parameter fields.
				properties[pair.Key] = vn.Schema
				if !vn.Optional {
					required = append(required, pair.Key)
				}
				bodyFields[pair.Key] = true
			}
		}
	}

	inputSchema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		inputSchema["required"] = required
	}
	raw, err := json.Marshal(inputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input schema for %s: %w", pathTemplate, err)
	}

	name := c.surface.toolName(op)

	validator, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("input schema for tool %q does not compile: %w", name, err)
	}

	return &Tool{
		Name:        name,
		Description: c.surface.toolDescription(op),
		InputSchema: raw,
		Handler:     c.newHandler(method, pathTemplate, params, bodyFields, validator),
	}, nil
}

// newHandler builds the invocation closure for one tool. The closure is
// bound to its originating path template, method, parameter list, body
// field set, and the surface's dispatcher; it shares no mutable state with
// other invocations.
func (c *Compiler) newHandler(method, pathTemplate string, params []*openapi.Parameter, bodyFields map[string]bool, validator *gojsonschema.Schema) server.ToolHandlerFunc {
	surface := c.surface
	base := c.logger

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := base.WithCorrelationId(uuid.NewString())

		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := validator.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			return errorResult(fmt.Sprintf("Error validating input: %v", err)), nil
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, verr := range result.Errors() {
				msgs = append(msgs, verr.String())
			}
			return errorResult("Invalid input: " + strings.Join(msgs, "; ")), nil
		}

		call := routeArguments(pathTemplate, params, bodyFields, args, logger)

		// A routed body with no fields is omitted, not sent as {}.
		var body map[string]any
		if method != "get" && len(call.Body) > 0 {
			body = call.Body
		}

		respBody, err := surface.Dispatcher.WithLogger(logger).Do(ctx, method, call.Path, call.Query, body)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		// Backend responses are returned verbatim, success or not.
		return textResult(string(respBody)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
