package domain

// Field length limits, counted in characters.
const (
	MaxAccountNameLen  = 100
	MaxCategoryNameLen = 100
	MaxTagNameLen      = 50
	MaxTitleLen        = 200
)
