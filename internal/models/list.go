package models

// ListEntry is a summary row from a bug or market-bug listing page. An entry
// only exists when its ID is a positive digit string and its title is
// non-empty; header and malformed rows never become entries.
type ListEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Severity   string `json:"severity"`
	AssignedTo string `json:"assignedTo"`
	Reporter   string `json:"reporter"`
	Resolver   string `json:"resolver"`
	Resolution string `json:"resolution"`
	Created    string `json:"created"`
	URL        string `json:"url"`
}

// BugList is the reply shape shared by the listing operations. An empty
// listing is a successful result, not an error.
type BugList struct {
	Success bool        `json:"success"`
	Total   int         `json:"total"`
	Bugs    []ListEntry `json:"bugs"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
	// Empty is set when the page carried the template's explicit no-records
	// marker, as opposed to markup the extractor did not recognize.
	Empty bool `json:"emptyState,omitempty"`
}
