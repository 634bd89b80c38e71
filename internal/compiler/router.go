package compiler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/merchkit/commerce-mcp/internal/common"
	"github.com/merchkit/commerce-mcp/internal/openapi"
)

// classifyParameters drops header-located parameters from the tool input
// surface entirely; path and query parameters are retained as named fields.
func classifyParameters(params []*openapi.Parameter) []*openapi.Parameter {
	retained := make([]*openapi.Parameter, 0, len(params))
	for _, p := range params {
		if p.In == "header" {
			continue
		}
		retained = append(retained, p)
	}
	return retained
}

// routedCall is the per-invocation result of splitting flat arguments back
// into their transmission channels.
type routedCall struct {
	Path  string
	Query url.Values
	Body  map[string]any
}

// routeArguments splits a flat argument map into path substitutions, query
// parameters, and body fields using the same parameter classification used
// at compile time. A name matching a declared parameter routes by that
// parameter's location; otherwise a declared body-field name routes to the
// body; names matching neither are dropped without error.
//
// Path values replace the first occurrence of their {name} placeholder,
// escaped so path-unsafe characters cannot alter routing. Query values are
// stringified, not schema-aware.
func routeArguments(pathTemplate string, params []*openapi.Parameter, bodyFields map[string]bool, args map[string]any, logger *common.Logger) routedCall {
	locations := make(map[string]string, len(params))
	for _, p := range params {
		locations[p.Name] = p.In
	}

	call := routedCall{
		Path:  pathTemplate,
		Query: url.Values{},
		Body:  map[string]any{},
	}

	for name, value := range args {
		switch locations[name] {
		case "path":
			call.Path = strings.Replace(call.Path, "{"+name+"}", url.PathEscape(fmt.Sprint(value)), 1)
		case "query":
			call.Query.Set(name, fmt.Sprint(value))
		default:
			if bodyFields[name] {
				call.Body[name] = value
			} else {
				logger.Debug().
					Str("argument", name).
					Msg("dropping argument matching no parameter or body field")
			}
		}
	}

	return call
}
