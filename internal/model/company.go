package model

// CompanyProfile is the metadata shown in the company panel.
type CompanyProfile struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Image       string `json:"image,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// DisplayName falls back to the symbol when the backend sent no name.
func (p *CompanyProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.CompanyName != "" {
		return p.CompanyName
	}
	return p.Symbol
}

// NewsItem is a single headline for the news panel.
type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate,omitempty"`
}
