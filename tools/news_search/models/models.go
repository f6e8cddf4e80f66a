package models

// Placeholder values substituted for fields absent from a provider response.
const (
	NoTitle   = "No Title"
	NoSummary = "No Summary"
	NoLink    = "No Link"
)

type Article struct {
	Title   string
	Snippet string
	Link    string
}
