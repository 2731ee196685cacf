package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Reason string            `json:"reason,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token        string    `json:"token"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AccountID    int       `json:"accountId"`
	AccountName  string    `json:"accountName"`
	AccountEmail string    `json:"accountEmail"`
}

// --- Accounts ---

type accountRequest struct {
	AccountName     string `json:"accountName"     validate:"required,max=100"`
	AccountEmail    string `json:"accountEmail"    validate:"required,email"`
	AccountPassword string `json:"accountPassword"`
	AccountRole     int    `json:"accountRole"     validate:"required,oneof=1 2 3"`
}

type accountResponse struct {
	AccountID    int    `json:"accountId"`
	AccountName  string `json:"accountName"`
	AccountEmail string `json:"accountEmail"`
	AccountRole  int    `json:"accountRole"`
	RoleLabel    string `json:"roleLabel"`
}

type canDeleteResponse struct {
	CanDelete bool   `json:"canDelete"`
	Reason    string `json:"reason,omitempty"`
}

// --- Categories ---

type categoryRequest struct {
	CategoryName        string `json:"categoryName"        validate:"required,max=100"`
	CategoryDescription string `json:"categoryDescription"`
	ParentCategoryID    *int   `json:"parentCategoryId"`
	IsActive            *bool  `json:"isActive"`
}

type categoryResponse struct {
	CategoryID          int    `json:"categoryId"`
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
	ParentCategoryID    *int   `json:"parentCategoryId"`
	IsActive            bool   `json:"isActive"`
}

// --- Tags ---

type tagRequest struct {
	TagName string `json:"tagName" validate:"required,max=50"`
	Note    string `json:"note"`
}

type tagResponse struct {
	TagID   int    `json:"tagId"`
	TagName string `json:"tagName"`
	Note    string `json:"note"`
}

// --- News articles ---

type articleRequest struct {
	NewsTitle   string `json:"newsTitle"   validate:"required,max=200"`
	Headline    string `json:"headline"    validate:"required"`
	NewsContent string `json:"newsContent" validate:"required"`
	NewsSource  string `json:"newsSource"  validate:"required"`
	CategoryID  int    `json:"categoryId"  validate:"required,gt=0"`
	NewsStatus  *int   `json:"newsStatus"`
	TagIDs      []int  `json:"tagIds"`
}

type articleResponse struct {
	NewsArticleID int               `json:"newsArticleId"`
	NewsTitle     string            `json:"newsTitle"`
	Headline      string            `json:"headline"`
	NewsContent   string            `json:"newsContent"`
	NewsSource    string            `json:"newsSource"`
	NewsStatus    int               `json:"newsStatus"`
	CategoryID    int               `json:"categoryId"`
	Category      *categoryResponse `json:"category,omitempty"`
	CreatedByID   int               `json:"createdById"`
	CreatedBy     *accountResponse  `json:"createdBy,omitempty"`
	UpdatedByID   *int              `json:"updatedById"`
	CreatedDate   time.Time         `json:"createdDate"`
	ModifiedDate  time.Time         `json:"modifiedDate"`
	Tags          []tagResponse     `json:"tags"`
}

type categoryCountResponse struct {
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

type staffCountResponse struct {
	StaffName string `json:"staffName"`
	Count     int    `json:"count"`
}

type reportResponse struct {
	StartDate     time.Time               `json:"startDate"`
	EndDate       time.Time               `json:"endDate"`
	TotalArticles int                     `json:"totalArticles"`
	Articles      []articleResponse       `json:"articles"`
	ByCategory    []categoryCountResponse `json:"byCategory"`
	ByStaff       []staffCountResponse    `json:"byStaff"`
}
