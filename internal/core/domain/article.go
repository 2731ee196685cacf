package domain

import (
	"sort"
	"time"
)

// NewsStatus is the publication state of an article.
type NewsStatus int

const (
	NewsInactive NewsStatus = 0
	NewsActive   NewsStatus = 1
)

// Valid reports whether s is a known status.
func (s NewsStatus) Valid() bool {
	return s == NewsInactive || s == NewsActive
}

// NewsArticle is the aggregate root of the news domain. Category, CreatedBy
// and Tags are populated by repository reads that load related records.
type NewsArticle struct {
	ID           int        `json:"newsArticleId"`
	Title        string     `json:"newsTitle"`
	Headline     string     `json:"headline"`
	Content      string     `json:"newsContent"`
	Source       string     `json:"newsSource"`
	Status       NewsStatus `json:"newsStatus"`
	CategoryID   int        `json:"categoryId"`
	CreatedByID  int        `json:"createdById"`
	UpdatedByID  *int       `json:"updatedById"`
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate time.Time  `json:"modifiedDate"`

	Category  *Category `json:"category,omitempty"`
	CreatedBy *Account  `json:"createdBy,omitempty"`
	Tags      []Tag     `json:"tags"`
}

// TagIDs returns the ids of the loaded tags.
func (a *NewsArticle) TagIDs() []int {
	ids := make([]int, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// SortNewest orders articles by created date descending, newest id first on ties.
func SortNewest(articles []NewsArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].CreatedDate.Equal(articles[j].CreatedDate) {
			return articles[i].CreatedDate.After(articles[j].CreatedDate)
		}
		return articles[i].ID > articles[j].ID
	})
}

// UniqueIDs drops duplicates and preserves first-seen order.
func UniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
