package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type ArticleRepository struct {
	db *pg.DB
}

func NewArticleRepository(db *pg.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) List(ctx context.Context, f ports.ArticleFilter) ([]domain.NewsArticle, error) {
	var rows []articleRow
	q := conn(ctx, r.db).ModelContext(ctx, &rows).
		Relation("Category").
		Relation("CreatedBy")

	if f.ActiveOnly {
		q = q.Where(`"t"."status" = ?`, int(domain.NewsActive))
	}
	if f.CreatedByID != 0 {
		q = q.Where(`"t"."created_by_id" = ?`, f.CreatedByID)
	}
	if !f.From.IsZero() {
		q = q.Where(`"t"."created_date" >= ?`, f.From)
	}
	if !f.To.IsZero() {
		q = q.Where(`"t"."created_date" <= ?`, f.To)
	}
	if f.Search != "" {
		pattern := searchPattern(f.Search)
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			return q.WhereOr(`"t"."title" ILIKE ?`, pattern).WhereOr(`"t"."content" ILIKE ?`, pattern), nil
		})
	}

	err := q.OrderExpr(`"t"."created_date" DESC`).
		OrderExpr(`"t"."id" DESC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("list news articles: %w", err)
	}

	articles := make([]domain.NewsArticle, 0, len(rows))
	for i := range rows {
		articles = append(articles, rows[i].toDomain())
	}
	if err := r.attachTags(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id int) (*domain.NewsArticle, error) {
	row := &articleRow{}
	err := conn(ctx, r.db).ModelContext(ctx, row).
		Relation("Category").
		Relation("CreatedBy").
		Where(`"t"."id" = ?`, id).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find news article %d: %w", id, err)
	}

	articles := []domain.NewsArticle{row.toDomain()}
	if err := r.attachTags(ctx, articles); err != nil {
		return nil, err
	}
	return &articles[0], nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.NewsArticle) (*domain.NewsArticle, error) {
	row := articleToRow(article)
	row.ID = 0
	if _, err := conn(ctx, r.db).ModelContext(ctx, row).Returning(`"id"`).Insert(); err != nil {
		return nil, fmt.Errorf("insert news article: %w", err)
	}
	created := row.toDomain()
	return &created, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.NewsArticle) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, articleToRow(article)).
		ExcludeColumn("created_date", "created_by_id").
		WherePK().
		Update()
	if err != nil {
		return fmt.Errorf("update news article %d: %w", article.ID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, (*articleRow)(nil)).Where(`"t"."id" = ?`, id).Delete()
	if err != nil {
		return fmt.Errorf("delete news article %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) CountByCreator(ctx context.Context, accountID int) (int, error) {
	n, err := conn(ctx, r.db).ModelContext(ctx, (*articleRow)(nil)).
		Where(`"t"."created_by_id" = ?`, accountID).
		Count()
	if err != nil {
		return 0, fmt.Errorf("count news articles by creator: %w", err)
	}
	return n, nil
}

func (r *ArticleRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	n, err := conn(ctx, r.db).ModelContext(ctx, (*articleRow)(nil)).
		Where(`"t"."category_id" = ?`, categoryID).
		Count()
	if err != nil {
		return 0, fmt.Errorf("count news articles by category: %w", err)
	}
	return n, nil
}

type articleTagRow struct {
	ArticleID int    `pg:"news_article_id"`
	ID        int    `pg:"id"`
	Name      string `pg:"name"`
	Note      string `pg:"note"`
}

// attachTags loads the tags of every article with a single query.
func (r *ArticleRepository) attachTags(ctx context.Context, articles []domain.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]int, 0, len(articles))
	index := make(map[int]int, len(articles))
	for i := range articles {
		ids = append(ids, articles[i].ID)
		index[articles[i].ID] = i
	}

	var rows []articleTagRow
	_, err := conn(ctx, r.db).QueryContext(ctx, &rows, `
		SELECT nt.news_article_id, tg.id, tg.name, tg.note
		FROM news_tags nt
		JOIN tags tg ON tg.id = nt.tag_id
		WHERE nt.news_article_id IN (?)
		ORDER BY tg.id`, pg.In(ids))
	if err != nil {
		return fmt.Errorf("load article tags: %w", err)
	}

	for _, row := range rows {
		i := index[row.ArticleID]
		articles[i].Tags = append(articles[i].Tags, domain.Tag{ID: row.ID, Name: row.Name, Note: row.Note})
	}
	return nil
}
