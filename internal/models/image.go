package models

// ImagePayload carries a downloaded image inline for AI analysis.
type ImagePayload struct {
	URL      string `json:"imageUrl"`
	MimeType string `json:"mimeType"`
	Subtype  string `json:"type"`
	Size     int    `json:"size"`
	// Data is the base64-encoded image body, omitted from JSON because it is
	// delivered as a separate binary content block.
	Data string `json:"-"`
}

// SavedImage confirms an image written to disk.
type SavedImage struct {
	URL     string `json:"imageUrl"`
	SavedTo string `json:"savedTo"`
	Subtype string `json:"type"`
	Size    int    `json:"size"`
}
