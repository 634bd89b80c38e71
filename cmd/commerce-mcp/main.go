package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/merchkit/commerce-mcp/internal/common"
	"github.com/merchkit/commerce-mcp/internal/compiler"
	"github.com/merchkit/commerce-mcp/internal/config"
	"github.com/merchkit/commerce-mcp/internal/dispatch"
	"github.com/merchkit/commerce-mcp/internal/openapi"
)

// loginTimeout bounds the one-shot startup credential exchange.
const loginTimeout = 10 * time.Second

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "commerce-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)

	tools, err := assembleTools(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to compile tools: %v", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	for _, t := range tools {
		mcpServer.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, t.InputSchema), t.Handler)
	}

	logger.Info().
		Int("tools", len(tools)).
		Str("version", common.GetFullVersion()).
		Msg("commerce-mcp ready")

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

// assembleTools compiles both surfaces, merges them admin-first, reports
// duplicate names, and applies the allow-list filter.
//
// A failed admin login is a degraded start, not a fatal one: the admin
// surface is omitted and only store tools are assembled. Compile errors
// (missing operationId, schema reference cycles) abort startup.
func assembleTools(cfg *config.Config, logger *common.Logger) (compiler.ToolSet, error) {
	var sets []compiler.ToolSet

	adminSet, err := compileAdminSurface(cfg, logger)
	if err != nil {
		return nil, err
	}
	if adminSet != nil {
		sets = append(sets, adminSet)
	}

	storeSet, err := compileStoreSurface(cfg, logger)
	if err != nil {
		return nil, err
	}
	sets = append(sets, storeSet)

	merged := compiler.Merge(sets...)
	merged.WarnDuplicates(logger)

	return merged.Filter(compiler.AllowList{
		AllowAll: cfg.Tools.AllowAll,
		Names:    cfg.Tools.Allowed,
	}), nil
}

// compileAdminSurface returns (nil, nil) when the admin surface is skipped
// because credentials are absent or the login failed.
func compileAdminSurface(cfg *config.Config, logger *common.Logger) (compiler.ToolSet, error) {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn().Msg("no admin credentials configured, skipping admin surface")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	token, err := dispatch.Login(ctx, cfg.Backend.BaseURL, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logger.Warn().
			Str("error", err.Error()).
			Msg("admin login failed, starting without admin tools")
		return nil, nil
	}

	doc, err := openapi.Load(cfg.Admin.SpecPath)
	if err != nil {
		return nil, err
	}

	surface := &compiler.Surface{
		Name:       "admin",
		ToolPrefix: "admin_",
		Preamble:   "Admin API: ",
		Dispatcher: dispatch.NewDispatcher(cfg.Backend.BaseURL, token, nil, logger),
	}

	return compiler.NewCompiler(doc, surface, logger).CompileDocument()
}

func compileStoreSurface(cfg *config.Config, logger *common.Logger) (compiler.ToolSet, error) {
	doc, err := openapi.Load(cfg.Store.SpecPath)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header)
	if cfg.Store.PublishableKey != "" {
		headers.Set("x-publishable-api-key", cfg.Store.PublishableKey)
	}

	surface := &compiler.Surface{
		Name:       "store",
		Preamble:   "Store API: ",
		Dispatcher: dispatch.NewDispatcher(cfg.Backend.BaseURL, cfg.Store.PublishableKey, headers, logger),
	}

	return compiler.NewCompiler(doc, surface, logger).CompileDocument()
}
