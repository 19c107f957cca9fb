package domain

// Sector is a top-level industry grouping (e.g. Health Science).
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pathway is a career pathway within a sector.
type Pathway struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SectorID    string `json:"sector_id"`
	Description string `json:"description,omitempty"`
}

// Occupation is an O*NET occupation.
type Occupation struct {
	// Code is the O*NET-SOC code (e.g. "29-1141.00").
	Code        string `json:"onet_code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Program is an education or training program attached to a pathway.
type Program struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PathwayID       string  `json:"pathway_id"`
	Description     string  `json:"description,omitempty"`
	InstitutionName string  `json:"institution_name,omitempty"`
	DegreeType      string  `json:"degree_type,omitempty"`
	DurationYears   float64 `json:"duration_years,omitempty"`
	CostTotal       float64 `json:"cost_total,omitempty"`
}

// ProgramSummary is the trimmed program view returned by search.
// Optional fields are pointers so absent values serialise as null
// rather than zero.
type ProgramSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Institution   *string  `json:"institution,omitempty"`
	DegreeType    *string  `json:"degree_type,omitempty"`
	DurationYears *float64 `json:"duration_years,omitempty"`
	CostTotal     *float64 `json:"cost_total,omitempty"`
}
