package domain

// CategoryCount is one entry of a category breakdown.
type CategoryCount struct {
	Name  Category
	Count int
}

// Stats aggregates a set of requests.
type Stats struct {
	Total              int
	Pending            int
	Completed          int
	AvgCompletionHours float64
	CategoryBreakdown  []CategoryCount
}
