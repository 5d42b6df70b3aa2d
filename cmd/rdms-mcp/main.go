package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/rdms-mcp/internal/common"
	"github.com/ternarybob/rdms-mcp/internal/services/scraper"
)

func main() {
	common.InstallCrashHandler("")
	defer func() {
		if r := recover(); r != nil {
			path := common.WriteCrashFile(r, string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "Fatal error, crash report written to %s\n", path)
			os.Exit(1)
		}
	}()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		common.PrintBanner(common.GetVersion())
		return
	}

	configPath := os.Getenv("RDMSMCP_CONFIG")
	if configPath == "" {
		configPath = "rdms-mcp.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.InitLogger(config)

	scraperService := scraper.NewService(config, logger)

	mcpServer := server.NewMCPServer(
		"rdms-mcp",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createLoginTool(), handleLogin(scraperService, logger))
	mcpServer.AddTool(createGetBugTool(), handleGetBug(scraperService, logger))
	mcpServer.AddTool(createGetMarketBugTool(), handleGetMarketBug(scraperService, logger))
	mcpServer.AddTool(createGetMyBugsTool(), handleGetMyBugs(scraperService, logger))
	mcpServer.AddTool(createGetMyMarketBugsTool(), handleGetMyMarketBugs(scraperService, logger))
	mcpServer.AddTool(createDownloadImageTool(), handleDownloadImage(scraperService, logger))

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
