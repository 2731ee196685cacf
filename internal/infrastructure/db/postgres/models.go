package postgres

import (
	"time"

	"github.com/newsroom/news-management/internal/core/domain"
)

type accountRow struct {
	tableName struct{} `pg:"accounts,alias:t,discard_unknown_columns"`

	ID           int    `pg:"id,pk"`
	Name         string `pg:"name,use_zero"`
	Email        string `pg:"email,use_zero"`
	PasswordHash string `pg:"password_hash,use_zero"`
	Role         int    `pg:"role,use_zero"`
}

type categoryRow struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID          int    `pg:"id,pk"`
	Name        string `pg:"name,use_zero"`
	Description string `pg:"description,use_zero"`
	ParentID    *int   `pg:"parent_id"`
	IsActive    bool   `pg:"is_active,use_zero"`
}

type tagRow struct {
	tableName struct{} `pg:"tags,alias:t,discard_unknown_columns"`

	ID   int    `pg:"id,pk"`
	Name string `pg:"name,use_zero"`
	Note string `pg:"note,use_zero"`
}

type articleRow struct {
	tableName struct{} `pg:"news_articles,alias:t,discard_unknown_columns"`

	ID           int       `pg:"id,pk"`
	Title        string    `pg:"title,use_zero"`
	Headline     string    `pg:"headline,use_zero"`
	Content      string    `pg:"content,use_zero"`
	Source       string    `pg:"source,use_zero"`
	Status       int       `pg:"status,use_zero"`
	CategoryID   int       `pg:"category_id"`
	CreatedByID  int       `pg:"created_by_id"`
	UpdatedByID  *int      `pg:"updated_by_id"`
	CreatedDate  time.Time `pg:"created_date"`
	ModifiedDate time.Time `pg:"modified_date"`

	Category  *categoryRow `pg:"fk:category_id,rel:has-one"`
	CreatedBy *accountRow  `pg:"fk:created_by_id,rel:has-one"`
}

type newsTagRow struct {
	tableName struct{} `pg:"news_tags,alias:nt"`

	ArticleID int `pg:"news_article_id,pk"`
	TagID     int `pg:"tag_id,pk"`
}

func accountToRow(a *domain.Account) *accountRow {
	return &accountRow{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role.Code(),
	}
}

func (r *accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.RoleFromCode(r.Role),
	}
}

func categoryToRow(c *domain.Category) *categoryRow {
	return &categoryRow{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
	}
}

func (r *categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
		IsActive:    r.IsActive,
	}
}

func tagToRow(t *domain.Tag) *tagRow {
	return &tagRow{ID: t.ID, Name: t.Name, Note: t.Note}
}

func (r *tagRow) toDomain() domain.Tag {
	return domain.Tag{ID: r.ID, Name: r.Name, Note: r.Note}
}

func articleToRow(a *domain.NewsArticle) *articleRow {
	return &articleRow{
		ID:           a.ID,
		Title:        a.Title,
		Headline:     a.Headline,
		Content:      a.Content,
		Source:       a.Source,
		Status:       int(a.Status),
		CategoryID:   a.CategoryID,
		CreatedByID:  a.CreatedByID,
		UpdatedByID:  a.UpdatedByID,
		CreatedDate:  a.CreatedDate,
		ModifiedDate: a.ModifiedDate,
	}
}

func (r *articleRow) toDomain() domain.NewsArticle {
	a := domain.NewsArticle{
		ID:           r.ID,
		Title:        r.Title,
		Headline:     r.Headline,
		Content:      r.Content,
		Source:       r.Source,
		Status:       domain.NewsStatus(r.Status),
		CategoryID:   r.CategoryID,
		CreatedByID:  r.CreatedByID,
		UpdatedByID:  r.UpdatedByID,
		CreatedDate:  r.CreatedDate.UTC(),
		ModifiedDate: r.ModifiedDate.UTC(),
		Tags:         []domain.Tag{},
	}
	if r.Category != nil && r.Category.ID != 0 {
		c := r.Category.toDomain()
		a.Category = &c
	}
	if r.CreatedBy != nil && r.CreatedBy.ID != 0 {
		acc := r.CreatedBy.toDomain()
		a.CreatedBy = &acc
	}
	return a
}
