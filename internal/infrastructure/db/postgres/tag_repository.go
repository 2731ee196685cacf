package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"

	"github.com/newsroom/news-management/internal/core/domain"
)

type TagRepository struct {
	db *pg.DB
}

func NewTagRepository(db *pg.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context, search string) ([]domain.Tag, error) {
	var rows []tagRow
	q := conn(ctx, r.db).ModelContext(ctx, &rows)
	if search != "" {
		pattern := searchPattern(search)
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			return q.WhereOr(`"t"."name" ILIKE ?`, pattern).WhereOr(`"t"."note" ILIKE ?`, pattern), nil
		})
	}
	if err := q.OrderExpr(`"t"."id" ASC`).Select(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tagsToDomain(rows), nil
}

func (r *TagRepository) FindByID(ctx context.Context, id int) (*domain.Tag, error) {
	row := &tagRow{ID: id}
	if err := conn(ctx, r.db).ModelContext(ctx, row).WherePK().Select(); err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	t := row.toDomain()
	return &t, nil
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var rows []tagRow
	err := conn(ctx, r.db).ModelContext(ctx, &rows).
		Where(`"t"."id" IN (?)`, pg.In(ids)).
		OrderExpr(`"t"."id" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("find tags by ids: %w", err)
	}
	return tagsToDomain(rows), nil
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	row := tagToRow(tag)
	row.ID = 0
	if _, err := conn(ctx, r.db).ModelContext(ctx, row).Returning(`"id"`).Insert(); err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	created := row.toDomain()
	return &created, nil
}

func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, tagToRow(tag)).WherePK().Update()
	if err != nil {
		return fmt.Errorf("update tag %d: %w", tag.ID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, (*tagRow)(nil)).Where(`"t"."id" = ?`, id).Delete()
	if err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func tagsToDomain(rows []tagRow) []domain.Tag {
	out := make([]domain.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
