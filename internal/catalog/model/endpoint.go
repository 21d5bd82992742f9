package model

// Endpoint is one deployment endpoint of the catalog.
type Endpoint struct {
	Name     string `json:"name,omitempty"`
	Platform string `json:"platform,omitempty"`
	Category string `json:"category,omitempty"`
	Dev      string `json:"dev,omitempty"`
	Int      string `json:"int,omitempty"`
	QA       string `json:"qa,omitempty"`
	Prod     string `json:"prod,omitempty"`
}
