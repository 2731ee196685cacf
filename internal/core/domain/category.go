package domain

// Category groups news articles. ParentID is an optional reference to another
// category and is not checked for cycles.
type Category struct {
	ID          int    `json:"categoryId"`
	Name        string `json:"categoryName"`
	Description string `json:"categoryDescription"`
	ParentID    *int   `json:"parentCategoryId"`
	IsActive    bool   `json:"isActive"`
}
