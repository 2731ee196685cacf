package postgres

import (
	"context"
	"fmt"

	"github.com/go-pg/pg/v10"
)

type NewsTagRepository struct {
	db *pg.DB
}

func NewNewsTagRepository(db *pg.DB) *NewsTagRepository {
	return &NewsTagRepository{db: db}
}

func (r *NewsTagRepository) TagIDs(ctx context.Context, articleID int) ([]int, error) {
	var ids []int
	err := conn(ctx, r.db).ModelContext(ctx, (*newsTagRow)(nil)).
		Column("tag_id").
		Where(`"nt"."news_article_id" = ?`, articleID).
		Order("tag_id").
		Select(&ids)
	if err != nil {
		return nil, fmt.Errorf("list tag ids of article %d: %w", articleID, err)
	}
	return ids, nil
}

// Replace must run inside a transaction to be atomic.
func (r *NewsTagRepository) Replace(ctx context.Context, articleID int, tagIDs []int) error {
	if err := r.DeleteByArticle(ctx, articleID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]newsTagRow, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, newsTagRow{ArticleID: articleID, TagID: id})
	}
	if _, err := conn(ctx, r.db).ModelContext(ctx, &rows).Insert(); err != nil {
		return fmt.Errorf("insert tags of article %d: %w", articleID, err)
	}
	return nil
}

func (r *NewsTagRepository) DeleteByArticle(ctx context.Context, articleID int) error {
	_, err := conn(ctx, r.db).ModelContext(ctx, (*newsTagRow)(nil)).
		Where(`"nt"."news_article_id" = ?`, articleID).
		Delete()
	if err != nil {
		return fmt.Errorf("delete tags of article %d: %w", articleID, err)
	}
	return nil
}

func (r *NewsTagRepository) DeleteByTag(ctx context.Context, tagID int) error {
	_, err := conn(ctx, r.db).ModelContext(ctx, (*newsTagRow)(nil)).
		Where(`"nt"."tag_id" = ?`, tagID).
		Delete()
	if err != nil {
		return fmt.Errorf("delete links of tag %d: %w", tagID, err)
	}
	return nil
}
