package domain

type Tag struct {
	ID   int    `json:"tagId"`
	Name string `json:"tagName"`
	Note string `json:"note"`
}

// NewsTag links an article to a tag.
type NewsTag struct {
	ArticleID int
	TagID     int
}
