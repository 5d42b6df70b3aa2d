// Package extract turns parsed RDMS pages into normalized records. The
// engine is layered: a table-row pass seeds fields from label/value rows,
// titled sections and text-proximity lookups fill what the tables missed, and
// class-based area selectors are the last resort for long-text fields.
// Earlier passes always win; later passes only touch still-empty fields, so
// extraction is deterministic for identical markup.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/rdms-mcp/internal/models"
)

// RecordResult carries the parts of a record the field targets cannot hold.
type RecordResult struct {
	Title   string
	Images  []string
	History []models.HistoryEntry
}

// Record runs the full extraction pipeline for one view page. fields maps
// normalized field names to their destination slots; slots stay empty when
// the markup carries nothing for them.
func Record(doc *goquery.Document, spec *RecordSpec, fields map[string]*string, baseURL string, logger arbor.ILogger) RecordResult {
	tablePass(doc, spec.Labels, fields)
	sectionPass(doc, spec.Sections, fields)
	proximityPass(doc, spec.Labels, fields)
	areaPass(doc, spec.Areas, fields)

	result := RecordResult{
		Title:   Title(doc, spec),
		Images:  Images(doc, baseURL, spec.SkipImageSrc),
		History: History(doc),
	}

	if logger != nil {
		filled := 0
		for _, target := range fields {
			if *target != "" {
				filled++
			}
		}
		logger.Debug().
			Int("fields_filled", filled).
			Int("fields_total", len(fields)).
			Int("images", len(result.Images)).
			Int("history", len(result.History)).
			Msg("Record extraction complete")
	}
	return result
}

// tablePass scans every generic table row with at least two cells, treating
// cell 0 as label and cell 1 as value. The first dictionary entry whose label
// matches wins for that row; a field already set keeps its value.
func tablePass(doc *goquery.Document, dict []LabelField, fields map[string]*string) {
	doc.Find("table tr, .table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := cellText(cells, 0)
		value := cellText(cells, 1)
		if label == "" || value == "" {
			return
		}
		for _, lf := range dict {
			if !lf.Matches(label) {
				continue
			}
			if target, ok := fields[lf.Field]; ok && *target == "" {
				*target = value
			}
			return
		}
	})
}

// Matches applies the entry's match mode to a row label.
func (lf LabelField) Matches(label string) bool {
	if lf.Exact {
		return label == lf.Label
	}
	return strings.Contains(label, lf.Label)
}

// sectionPass walks the ".detail-title" sections of market view pages. Pair
// sections carry stride-2 label/value cells; body sections map their whole
// text to a single field.
func sectionPass(doc *goquery.Document, sections []SectionRule, fields map[string]*string) {
	if len(sections) == 0 {
		return
	}
	doc.Find(".detail-title").Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())
		content := heading.NextFiltered(".detail-content")
		if content.Length() == 0 {
			return
		}
		for _, rule := range sections {
			if rule.Title != title {
				continue
			}
			if rule.Field != "" {
				if target, ok := fields[rule.Field]; ok && *target == "" {
					*target = strings.TrimSpace(content.Text())
				}
				continue
			}
			content.Find("tr").Each(func(_ int, row *goquery.Selection) {
				cells := row.Find("th, td")
				for k := 0; k+1 < cells.Length(); k += 2 {
					label := cellText(cells, k)
					value := sectionValue(cells.Eq(k + 1))
					if label == "" || value == "" {
						continue
					}
					for _, pair := range rule.Pairs {
						if !pair.Matches(label) {
							continue
						}
						if target, ok := fields[pair.Field]; ok && *target == "" {
							*target = value
						}
						break
					}
				}
			})
		}
	})
}

// sectionValue prefers a nested detail block over the raw cell text so long
// fields like the defect description keep their full body.
func sectionValue(cell *goquery.Selection) string {
	if inner := cell.Find(".detail-content"); inner.Length() > 0 {
		if text := strings.TrimSpace(inner.Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(cell.Text())
}

// proximityPass locates elements whose own text is exactly a dictionary
// label (optionally with a trailing colon) and takes the first non-empty
// nearby value: next sibling, parent's next sibling, then the second cell of
// the enclosing row. A candidate equal to the label itself is a non-match,
// which guards against selecting the label element as its own value.
func proximityPass(doc *goquery.Document, dict []LabelField, fields map[string]*string) {
	for _, lf := range dict {
		target, ok := fields[lf.Field]
		if !ok || *target != "" {
			continue
		}
		label := lf.Label
		doc.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			text := strings.TrimSpace(el.Text())
			if text != label && text != label+":" && text != label+"：" {
				return true
			}
			value := strings.TrimSpace(el.Next().Text())
			if value == "" {
				value = strings.TrimSpace(el.Parent().Next().Text())
			}
			if value == "" {
				cells := el.Closest("tr").Find("td")
				if cells.Length() > 1 {
					value = cellText(cells, 1)
				}
			}
			if value != "" && value != label {
				*target = value
				return false
			}
			return true
		})
	}
}

// areaPass is the long-text fallback for fields the structural passes missed.
func areaPass(doc *goquery.Document, areas []AreaRule, fields map[string]*string) {
	for _, area := range areas {
		target, ok := fields[area.Field]
		if !ok || *target != "" {
			continue
		}
		if text := firstText(doc, area.Selectors); text != "" {
			*target = text
		}
	}
}

// Title reads the document title, strips the record-number prefix and the
// configured site-name suffixes (repeatedly, since some installations stack
// two), and falls back to the page heading elements when the title element is
// empty.
func Title(doc *goquery.Document, spec *RecordSpec) string {
	full := strings.TrimSpace(doc.Find("title").Text())
	if full == "" {
		return firstText(doc, spec.TitleFallbacks)
	}
	title := full
	if spec.TitlePrefix != nil {
		title = spec.TitlePrefix.ReplaceAllString(title, "")
	}
	for changed := true; changed; {
		changed = false
		for _, suffix := range spec.TitleSuffixes {
			trimmed := suffix.ReplaceAllString(title, "")
			if trimmed != title {
				title = trimmed
				changed = true
			}
		}
	}
	return strings.TrimSpace(title)
}

// Images collects image source URLs in document order. Embedded data URIs and
// the configured skip tokens are excluded; relative sources resolve against
// the base URL. Duplicates are kept on purpose: repetition mirrors the page.
func Images(doc *goquery.Document, baseURL string, skipTokens []string) []string {
	urls := []string{}
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		for _, token := range skipTokens {
			if strings.Contains(src, token) {
				return
			}
		}
		urls = append(urls, resolveURL(baseURL, src))
	})
	return urls
}
