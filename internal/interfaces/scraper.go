package interfaces

import (
	"context"

	"github.com/ternarybob/rdms-mcp/internal/models"
)

// ScraperService is the operation surface the MCP handlers dispatch to.
type ScraperService interface {
	// Login authenticates against an installation and stores credentials for
	// later automatic re-login.
	Login(ctx context.Context, baseURL, username, password string) (string, error)

	// GetBug extracts one bug view page into a normalized record.
	GetBug(ctx context.Context, bugID string) (*models.BugRecord, error)

	// GetMarketBug extracts one market bug view page.
	GetMarketBug(ctx context.Context, marketBugID string) (*models.MarketBugRecord, error)

	// GetMyBugs lists bugs assigned to the logged-in account.
	GetMyBugs(ctx context.Context, status string, limit int) (*models.BugList, error)

	// GetMyMarketBugs lists market bugs assigned to the logged-in account.
	GetMyMarketBugs(ctx context.Context, limit int) (*models.BugList, error)

	// DownloadImage fetches an image under the session; exactly one of the
	// returns is non-nil on success depending on analyze.
	DownloadImage(ctx context.Context, imageURL, filename string, analyze bool) (*models.ImagePayload, *models.SavedImage, error)
}
