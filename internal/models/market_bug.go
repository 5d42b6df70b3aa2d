package models

// MarketBugRecord is a normalized market (customer-reported) bug pulled out of
// an RDMS bugmarket view page. Same presence invariant as BugRecord.
type MarketBugRecord struct {
	ID                     string `json:"id"`
	Title                  string `json:"title"`
	Status                 string `json:"status"`
	Priority               string `json:"priority"`
	Severity               string `json:"severity"`
	AssignedTo             string `json:"assignedTo"`
	Reporter               string `json:"reporter"`
	Product                string `json:"product"`
	ProductLine            string `json:"productLine"`
	ProductVersion         string `json:"productVersion"`
	ProductSystem          string `json:"productSystem"`
	Project                string `json:"project"`
	Module                 string `json:"module"`
	Version                string `json:"version"`
	Created                string `json:"created"`
	Updated                string `json:"updated"`
	Region                 string `json:"region"`
	CustomerCode           string `json:"customerCode"`
	CustomerName           string `json:"customerName"`
	ExpectedSolveDate      string `json:"expectedSolveDate"`
	ProblemLevel           string `json:"problemLevel"`
	FrontTechSupport       string `json:"frontTechSupport"`
	DefectDescription      string `json:"defectDescription"`
	TemporaryResponse      string `json:"temporaryResponse"`
	Solution               string `json:"solution"`
	DefectAttribution      string `json:"defectAttribution"`
	DefectType             string `json:"defectType"`
	PlanFixTime            string `json:"planFixTime"`
	ProblemAttributionTeam string `json:"problemAttributionTeam"`
	LocationProblem        string `json:"locationProblem"`
	Confirmed              string `json:"confirmed"`
	SolveDate              string `json:"solveDate"`
	CloseDate              string `json:"closeDate"`
	SubmitPage             string `json:"submitPage"`

	Images  []string       `json:"images"`
	History []HistoryEntry `json:"history"`
}

// NewMarketBugRecord returns a record with slices initialized.
func NewMarketBugRecord(id string) *MarketBugRecord {
	return &MarketBugRecord{
		ID:      id,
		Images:  []string{},
		History: []HistoryEntry{},
	}
}

// FieldTargets maps normalized field names to struct slots for the extraction
// engine.
func (r *MarketBugRecord) FieldTargets() map[string]*string {
	return map[string]*string{
		"status":                 &r.Status,
		"priority":               &r.Priority,
		"severity":               &r.Severity,
		"assignedTo":             &r.AssignedTo,
		"reporter":               &r.Reporter,
		"product":                &r.Product,
		"productLine":            &r.ProductLine,
		"productVersion":         &r.ProductVersion,
		"productSystem":          &r.ProductSystem,
		"project":                &r.Project,
		"module":                 &r.Module,
		"version":                &r.Version,
		"created":                &r.Created,
		"updated":                &r.Updated,
		"region":                 &r.Region,
		"customerCode":           &r.CustomerCode,
		"customerName":           &r.CustomerName,
		"expectedSolveDate":      &r.ExpectedSolveDate,
		"problemLevel":           &r.ProblemLevel,
		"frontTechSupport":       &r.FrontTechSupport,
		"defectDescription":      &r.DefectDescription,
		"temporaryResponse":      &r.TemporaryResponse,
		"solution":               &r.Solution,
		"defectAttribution":      &r.DefectAttribution,
		"defectType":             &r.DefectType,
		"planFixTime":            &r.PlanFixTime,
		"problemAttributionTeam": &r.ProblemAttributionTeam,
		"locationProblem":        &r.LocationProblem,
		"confirmed":              &r.Confirmed,
		"solveDate":              &r.SolveDate,
		"closeDate":              &r.CloseDate,
		"submitPage":             &r.SubmitPage,
	}
}
