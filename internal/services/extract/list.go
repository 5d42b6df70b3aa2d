package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/rdms-mcp/internal/models"
)

// ListLayout parameterizes list extraction for one listing page family.
// Column offsets differ between families (the personal work listing and the
// market browse listing place reporter/resolver columns differently), so each
// family ships its own layout value; a cell index of -1 means the column does
// not exist on that family.
type ListLayout struct {
	Name string

	// RowSelectors are tried in order; the first selector whose rows contain
	// at least one view anchor wins. When none match, bare anchors anywhere in
	// the document are used with their enclosing rows.
	RowSelectors []string

	AnchorMarker string         // href substring identifying view links
	IDPattern    *regexp.Regexp // numeric record ID capture from the href
	IDAttr       string         // row attribute carrying the ID, tried first
	HeaderToken  string         // ID cell content marking a header row

	SeveritySelectors []string
	PrioritySelector  string
	StatusSelector    string

	ReporterCell   int
	ResolverCell   int
	ResolutionCell int
	CreatedCell    int

	EmptyStateSelector string
	EmptyStateMarker   string
}

var viewIDPattern = regexp.MustCompile(`bugID=(\d+)`)

// NewMyWorkLayout matches the personal "my work" bug listing
// (index.php?m=my&f=work&mode=bug).
func NewMyWorkLayout() *ListLayout {
	return &ListLayout{
		Name:               "my-work",
		RowSelectors:       []string{"#bugList tbody tr", "table.table tbody tr", "table tr"},
		AnchorMarker:       "m=bug&f=view&bugID=",
		IDPattern:          viewIDPattern,
		IDAttr:             "data-id",
		HeaderToken:        "ID",
		SeveritySelectors:  []string{".label-severity-custom", `[title*="严重程度"]`, ".label-severity"},
		PrioritySelector:   ".label-pri",
		StatusSelector:     "",
		ReporterCell:       6,
		ResolverCell:       8,
		ResolutionCell:     9,
		CreatedCell:        -1,
		EmptyStateSelector: ".table-empty-tip",
		EmptyStateMarker:   "暂时没有Bug",
	}
}

// NewMarketBrowseLayout matches the market bug browse listing
// (index.php?m=bugmarket&f=browse). Its table keeps status inline and shifts
// the people columns left of the personal listing's.
func NewMarketBrowseLayout() *ListLayout {
	return &ListLayout{
		Name:               "market-browse",
		RowSelectors:       []string{"#bugList tbody tr", ".table-data tbody tr", "table tr"},
		AnchorMarker:       "m=bugmarket&f=view&bugID=",
		IDPattern:          viewIDPattern,
		IDAttr:             "data-id",
		HeaderToken:        "ID",
		SeveritySelectors:  []string{".label-severity-custom", ".label-severity"},
		PrioritySelector:   ".label-pri",
		StatusSelector:     ".status",
		ReporterCell:       5,
		ResolverCell:       7,
		ResolutionCell:     -1,
		CreatedCell:        8,
		EmptyStateSelector: ".table-empty-tip",
		EmptyStateMarker:   "暂时没有Bug",
	}
}

// List enumerates listing rows into summary entries, capped at limit. Finding
// nothing is a successful zero-result reply, whether or not the page carries
// the explicit empty-state marker.
func List(doc *goquery.Document, layout *ListLayout, limit int, label, baseURL string) *models.BugList {
	anchorSelector := fmt.Sprintf(`a[href*="%s"]`, layout.AnchorMarker)
	entries := []models.ListEntry{}

	for _, row := range layout.selectRows(doc, anchorSelector) {
		if limit > 0 && len(entries) >= limit {
			break
		}
		if entry, ok := layout.entryFromRow(row, anchorSelector, baseURL); ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) > 0 {
		return &models.BugList{
			Success: true,
			Total:   len(entries),
			Bugs:    entries,
			Type:    label,
			Message: fmt.Sprintf("找到 %d 个%s", len(entries), label),
		}
	}

	// Zero rows: the explicit empty-state marker and an unrecognized page
	// shape both report an empty result, not an error.
	return &models.BugList{
		Success: true,
		Total:   0,
		Bugs:    []models.ListEntry{},
		Type:    label,
		Message: "暂无" + label,
		Empty:   layout.hasEmptyMarker(doc),
	}
}

// hasEmptyMarker reports whether the page carries the template's explicit
// "no records" tip, distinguishing a genuinely empty listing from markup the
// layout did not recognize.
func (l *ListLayout) hasEmptyMarker(doc *goquery.Document) bool {
	if l.EmptyStateSelector == "" {
		return false
	}
	tip := strings.TrimSpace(doc.Find(l.EmptyStateSelector).Text())
	return tip != "" && strings.Contains(tip, l.EmptyStateMarker)
}

// selectRows applies the layout's row strategies in order. The fallback
// strategy walks view anchors directly and lifts their enclosing rows, which
// also covers markup where anchors sit outside any table.
func (l *ListLayout) selectRows(doc *goquery.Document, anchorSelector string) []*goquery.Selection {
	for _, selector := range l.RowSelectors {
		var rows []*goquery.Selection
		doc.Find(selector).Each(func(_ int, row *goquery.Selection) {
			if row.Find(anchorSelector).Length() > 0 {
				rows = append(rows, row)
			}
		})
		if len(rows) > 0 {
			return rows
		}
	}
	var rows []*goquery.Selection
	doc.Find(anchorSelector).Each(func(_ int, anchor *goquery.Selection) {
		if row := anchor.Closest("tr"); row.Length() > 0 {
			rows = append(rows, row)
		} else {
			rows = append(rows, anchor)
		}
	})
	return rows
}

// entryFromRow builds one summary entry. Rows without a positive numeric ID
// or a title are discarded; that filters header rows and malformed markup.
func (l *ListLayout) entryFromRow(row *goquery.Selection, anchorSelector, baseURL string) (models.ListEntry, bool) {
	anchor := row.Find(anchorSelector).First()
	if anchor.Length() == 0 && goquery.NodeName(row) == "a" {
		anchor = row
		row = anchor.Closest("tr")
	}
	href, _ := anchor.Attr("href")

	id := strings.TrimSpace(row.AttrOr(l.IDAttr, ""))
	if id == "" && href != "" && l.IDPattern != nil {
		if match := l.IDPattern.FindStringSubmatch(href); match != nil {
			id = match[1]
		}
	}
	title := strings.TrimSpace(anchor.Text())

	if !isDigits(id) || strings.Trim(id, "0") == "" || id == l.HeaderToken || title == "" {
		return models.ListEntry{}, false
	}

	entry := models.ListEntry{
		ID:    id,
		Title: title,
	}
	for _, selector := range l.SeveritySelectors {
		if text := strings.TrimSpace(row.Find(selector).Text()); text != "" {
			entry.Severity = text
			break
		}
	}
	if l.PrioritySelector != "" {
		entry.Priority = strings.TrimSpace(row.Find(l.PrioritySelector).Text())
	}
	if l.StatusSelector != "" {
		entry.Status = strings.TrimSpace(row.Find(l.StatusSelector).Text())
	}

	cells := row.Find("td")
	entry.Reporter = cellText(cells, l.ReporterCell)
	entry.Resolver = cellText(cells, l.ResolverCell)
	entry.Resolution = cellText(cells, l.ResolutionCell)
	entry.Created = cellText(cells, l.CreatedCell)

	if href != "" {
		entry.URL = resolveURL(baseURL, href)
	}
	return entry, true
}
