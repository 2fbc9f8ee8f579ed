package domain

// Category is a CPV procurement category.
type Category struct {
	Code          string `json:"code"`
	DescriptionEN string `json:"description_en"`
	DescriptionGR string `json:"description_gr"`
}

// CategoryMatch is a scored category search result.
type CategoryMatch struct {
	Category
	Score int `json:"score"`
}

// Organization is a publishing body on Diavgeia.
type Organization struct {
	UID   string `json:"uid"`
	Label string `json:"label"`
}

// OrgCandidate is a fuzzy directory match returned by the store.
type OrgCandidate struct {
	Organization
	Similarity float64 `json:"similarity"`
}

// Stats summarizes the contents of the store.
type Stats struct {
	TotalDecisions      int64     `json:"total_decisions"`
	TotalExpenseItems   int64     `json:"total_expense_items"`
	UniqueOrganizations int64     `json:"unique_organizations"`
	UniqueContractors   int64     `json:"unique_contractors"`
	TotalAmount         float64   `json:"total_amount"`
	DateRange           DateRange `json:"date_range"`
}

// DateRange holds ISO dates; empty when the store has no decisions.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}
