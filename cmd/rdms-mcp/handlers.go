package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/rdms-mcp/internal/interfaces"
)

const maxListLimit = 100

// handleLogin implements the rdms_login tool
func handleLogin(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		baseURL, err := request.RequireString("baseUrl")
		if err != nil || baseURL == "" {
			return errorResult(fmt.Errorf("baseUrl parameter is required")), nil
		}
		username, err := request.RequireString("username")
		if err != nil || username == "" {
			return errorResult(fmt.Errorf("username parameter is required")), nil
		}
		password, err := request.RequireString("password")
		if err != nil || password == "" {
			return errorResult(fmt.Errorf("password parameter is required")), nil
		}

		message, err := svc.Login(ctx, baseURL, username, password)
		if err != nil {
			logger.Warn().Err(err).Str("user", username).Msg("Login failed")
			return errorResult(err), nil
		}

		return jsonResult(map[string]interface{}{
			"success": true,
			"message": message,
		}), nil
	}
}

// handleGetBug implements the rdms_get_bug tool
func handleGetBug(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bugID, err := request.RequireString("bugId")
		if err != nil || bugID == "" {
			return errorResult(fmt.Errorf("bugId parameter is required")), nil
		}

		bug, err := svc.GetBug(ctx, bugID)
		if err != nil {
			logger.Error().Err(err).Str("bug_id", bugID).Msg("Bug fetch failed")
			return errorResult(err), nil
		}

		return jsonResult(bug), nil
	}
}

// handleGetMarketBug implements the rdms_get_market_bug tool
func handleGetMarketBug(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bugID, err := request.RequireString("marketBugId")
		if err != nil || bugID == "" {
			return errorResult(fmt.Errorf("marketBugId parameter is required")), nil
		}

		bug, err := svc.GetMarketBug(ctx, bugID)
		if err != nil {
			logger.Error().Err(err).Str("bug_id", bugID).Msg("Market bug fetch failed")
			return errorResult(err), nil
		}

		return jsonResult(bug), nil
	}
}

// handleGetMyBugs implements the rdms_get_my_bugs tool
func handleGetMyBugs(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := request.GetString("status", "active")
		limit := request.GetInt("limit", 0)
		if limit > maxListLimit {
			limit = maxListLimit
		}

		list, err := svc.GetMyBugs(ctx, status, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Bug list fetch failed")
			return errorResult(err), nil
		}

		return jsonResult(list), nil
	}
}

// handleGetMyMarketBugs implements the rdms_get_my_market_bugs tool
func handleGetMyMarketBugs(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 0)
		if limit > maxListLimit {
			limit = maxListLimit
		}

		list, err := svc.GetMyMarketBugs(ctx, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Market bug list fetch failed")
			return errorResult(err), nil
		}

		return jsonResult(list), nil
	}
}

// handleDownloadImage implements the rdms_download_image tool
func handleDownloadImage(svc interfaces.ScraperService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		imageURL, err := request.RequireString("imageUrl")
		if err != nil || imageURL == "" {
			return errorResult(fmt.Errorf("imageUrl parameter is required")), nil
		}
		filename := request.GetString("filename", "")
		analyze := request.GetBool("analyze", true)

		payload, saved, err := svc.DownloadImage(ctx, imageURL, filename, analyze)
		if err != nil {
			logger.Error().Err(err).Str("url", imageURL).Msg("Image download failed")
			return errorResult(err), nil
		}

		if analyze {
			caption := fmt.Sprintf("Image from %s (%s, %d bytes)", payload.URL, payload.MimeType, payload.Size)
			return mcp.NewToolResultImage(caption, payload.Data, payload.MimeType), nil
		}

		return jsonResult(map[string]interface{}{
			"success": true,
			"saved":   saved,
		}), nil
	}
}
