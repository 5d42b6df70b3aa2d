package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createLoginTool returns the rdms_login tool definition
func createLoginTool() mcp.Tool {
	return mcp.NewTool("rdms_login",
		mcp.WithDescription("Log in to the RDMS bug tracking system. Credentials are kept for automatic re-login when the session expires."),
		mcp.WithString("baseUrl",
			mcp.Required(),
			mcp.Description("Base URL of the RDMS installation (e.g. http://rdms.example.com)"),
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("RDMS account name"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("RDMS account password"),
		),
	)
}

// createGetBugTool returns the rdms_get_bug tool definition
func createGetBugTool() mcp.Tool {
	return mcp.NewTool("rdms_get_bug",
		mcp.WithDescription("Fetch a single RDMS bug by ID and return its full details as JSON, including embedded image URLs and change history"),
		mcp.WithString("bugId",
			mcp.Required(),
			mcp.Description("Numeric bug ID (e.g. 141480)"),
		),
	)
}

// createGetMarketBugTool returns the rdms_get_market_bug tool definition
func createGetMarketBugTool() mcp.Tool {
	return mcp.NewTool("rdms_get_market_bug",
		mcp.WithDescription("Fetch a single RDMS market bug (customer-reported defect) by ID and return its full details as JSON"),
		mcp.WithString("marketBugId",
			mcp.Required(),
			mcp.Description("Numeric market bug ID"),
		),
	)
}

// createGetMyBugsTool returns the rdms_get_my_bugs tool definition
func createGetMyBugsTool() mcp.Tool {
	return mcp.NewTool("rdms_get_my_bugs",
		mcp.WithDescription("List bugs assigned to the logged-in account"),
		mcp.WithString("status",
			mcp.Description("Status filter: active (default, no filtering), resolved, closed"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum bugs to return (default: 20, max: 100)"),
		),
	)
}

// createGetMyMarketBugsTool returns the rdms_get_my_market_bugs tool definition
func createGetMyMarketBugsTool() mcp.Tool {
	return mcp.NewTool("rdms_get_my_market_bugs",
		mcp.WithDescription("List market bugs assigned to the logged-in account"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum bugs to return (default: 20, max: 100)"),
		),
	)
}

// createDownloadImageTool returns the rdms_download_image tool definition
func createDownloadImageTool() mcp.Tool {
	return mcp.NewTool("rdms_download_image",
		mcp.WithDescription("Download an image from RDMS under the authenticated session. With analyze=true the image content is returned inline for viewing; otherwise it is saved to disk."),
		mcp.WithString("imageUrl",
			mcp.Required(),
			mcp.Description("Image URL, absolute or relative to the RDMS base URL"),
		),
		mcp.WithString("filename",
			mcp.Description("Target filename or path when saving to disk (default: generated name under the configured images directory)"),
		),
		mcp.WithBoolean("analyze",
			mcp.Description("Return the image content inline instead of saving it (default: true)"),
		),
	)
}
