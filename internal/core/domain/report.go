package domain

import "time"

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

// StaffCount is one row of the per-author breakdown.
type StaffCount struct {
	StaffName string `json:"staffName"`
	Count     int    `json:"count"`
}

// Report aggregates the articles created within [Start, End].
type Report struct {
	Start         time.Time       `json:"startDate"`
	End           time.Time       `json:"endDate"`
	TotalArticles int             `json:"totalArticles"`
	Articles      []NewsArticle   `json:"articles"`
	ByCategory    []CategoryCount `json:"byCategory"`
	ByStaff       []StaffCount    `json:"byStaff"`
}
