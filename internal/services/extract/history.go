package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/rdms-mcp/internal/models"
)

// historyPattern matches the templated action line of a history item:
// "2024-03-01 10:22:03, 由 张三 创建。". Items that do not match still keep
// their raw text; only the structured fields stay empty.
var historyPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}),\s*由\s*(\S+)\s+(.+)$`)

// History parses the history list of a view page. The raw text is the item's
// own text with child elements removed, so nested comment markup never bleeds
// into the action line.
func History(doc *goquery.Document) []models.HistoryEntry {
	entries := []models.HistoryEntry{}
	doc.Find(".histories-list li").Each(func(_ int, item *goquery.Selection) {
		raw := ownText(item)
		if raw == "" {
			return
		}
		entry := models.HistoryEntry{
			RawText: raw,
			Comment: strings.TrimSpace(item.Find(".comment-content").Text()),
		}
		if match := historyPattern.FindStringSubmatch(raw); match != nil {
			entry.Time = match[1]
			entry.Operator = match[2]
			entry.Action = match[3]
		}
		entries = append(entries, entry)
	})
	return entries
}
