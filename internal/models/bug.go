package models

// BugRecord is a normalized bug pulled out of an RDMS bug view page.
// Every field is always present in the JSON output; an empty string means the
// page did not carry the field, never that extraction was skipped.
type BugRecord struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	Severity        string `json:"severity"`
	Confirmed       string `json:"confirmed"`
	AssignedTo      string `json:"assignedTo"`
	Reporter        string `json:"reporter"`
	CreatedBy       string `json:"createdBy"`
	ResolvedBy      string `json:"resolvedBy"`
	ClosedBy        string `json:"closedBy"`
	CC              string `json:"cc"`
	Product         string `json:"product"`
	Project         string `json:"project"`
	Module          string `json:"module"`
	Version         string `json:"version"`
	AffectedVersion string `json:"affectedVersion"`
	ResolvedVersion string `json:"resolvedVersion"`
	OS              string `json:"os"`
	Browser         string `json:"browser"`
	PlatformDevice  string `json:"platformDevice"`
	BugType         string `json:"bugType"`
	Plan            string `json:"plan"`
	Attribution     string `json:"attribution"`
	AttributionTeam string `json:"attributionTeam"`
	ValueAttribute  string `json:"valueAttribute"`
	ActivationCount string `json:"activationCount"`
	ActivationDate  string `json:"activationDate"`
	Probability     string `json:"probability"`
	CommonIssue     string `json:"commonIssue"`
	Execution       string `json:"execution"`
	Requirement     string `json:"requirement"`
	Task            string `json:"task"`
	RelatedBugs     string `json:"relatedBugs"`
	RelatedCases    string `json:"relatedCases"`
	Deadline        string `json:"deadline"`
	Created         string `json:"created"`
	Updated         string `json:"updated"`
	LastModified    string `json:"lastModified"`
	Steps           string `json:"steps"`
	Description     string `json:"description"`
	Keywords        string `json:"keywords"`
	Solution        string `json:"solution"`

	Images  []string       `json:"images"`
	History []HistoryEntry `json:"history"`
}

// NewBugRecord returns a record with the image and history slices initialized
// so they serialize as [] rather than null.
func NewBugRecord(id string) *BugRecord {
	return &BugRecord{
		ID:      id,
		Images:  []string{},
		History: []HistoryEntry{},
	}
}

// FieldTargets maps normalized field names to their struct slots. The
// extraction engine writes through these pointers so the record type stays a
// flat struct while the engine stays data-driven.
func (r *BugRecord) FieldTargets() map[string]*string {
	return map[string]*string{
		"status":          &r.Status,
		"priority":        &r.Priority,
		"severity":        &r.Severity,
		"confirmed":       &r.Confirmed,
		"assignedTo":      &r.AssignedTo,
		"reporter":        &r.Reporter,
		"createdBy":       &r.CreatedBy,
		"resolvedBy":      &r.ResolvedBy,
		"closedBy":        &r.ClosedBy,
		"cc":              &r.CC,
		"product":         &r.Product,
		"project":         &r.Project,
		"module":          &r.Module,
		"version":         &r.Version,
		"affectedVersion": &r.AffectedVersion,
		"resolvedVersion": &r.ResolvedVersion,
		"os":              &r.OS,
		"browser":         &r.Browser,
		"platformDevice":  &r.PlatformDevice,
		"bugType":         &r.BugType,
		"plan":            &r.Plan,
		"attribution":     &r.Attribution,
		"attributionTeam": &r.AttributionTeam,
		"valueAttribute":  &r.ValueAttribute,
		"activationCount": &r.ActivationCount,
		"activationDate":  &r.ActivationDate,
		"probability":     &r.Probability,
		"commonIssue":     &r.CommonIssue,
		"execution":       &r.Execution,
		"requirement":     &r.Requirement,
		"task":            &r.Task,
		"relatedBugs":     &r.RelatedBugs,
		"relatedCases":    &r.RelatedCases,
		"deadline":        &r.Deadline,
		"created":         &r.Created,
		"updated":         &r.Updated,
		"lastModified":    &r.LastModified,
		"steps":           &r.Steps,
		"description":     &r.Description,
		"keywords":        &r.Keywords,
		"solution":        &r.Solution,
	}
}
