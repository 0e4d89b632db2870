package models

// AISearchRequest is sent to the AI collaborator when a query needs interpretation.
type AISearchRequest struct {
	Query       string `json:"query"`
	DataContext string `json:"dataContext"`
}

// AISearchCriteria is a FilterSpecification plus the collaborator's escape hatch.
type AISearchCriteria struct {
	FilterSpecification
	Fallback bool `json:"fallback,omitempty"`
}

// AISearchResponse is the structured answer expected from the AI collaborator.
type AISearchResponse struct {
	Interpretation string           `json:"interpretation"`
	SearchCriteria AISearchCriteria `json:"searchCriteria"`
	Suggestions    []string         `json:"suggestions"`
}
