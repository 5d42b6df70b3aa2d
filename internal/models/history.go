package models

// HistoryEntry is one item from the history list of a bug view page. RawText
// and Comment are always populated from the markup; Time, Operator and Action
// are only set when the raw text matches the recognized
// "timestamp, by operator action" pattern.
type HistoryEntry struct {
	RawText  string `json:"rawText"`
	Comment  string `json:"comment,omitempty"`
	Time     string `json:"time,omitempty"`
	Operator string `json:"operator,omitempty"`
	Action   string `json:"action,omitempty"`
}
