package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"

	"github.com/newsroom/news-management/internal/core/domain"
)

type CategoryRepository struct {
	db *pg.DB
}

func NewCategoryRepository(db *pg.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, search string) ([]domain.Category, error) {
	var rows []categoryRow
	q := conn(ctx, r.db).ModelContext(ctx, &rows)
	if search != "" {
		pattern := searchPattern(search)
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			return q.WhereOr(`"t"."name" ILIKE ?`, pattern).WhereOr(`"t"."description" ILIKE ?`, pattern), nil
		})
	}
	if err := q.OrderExpr(`"t"."id" ASC`).Select(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]domain.Category, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	row := &categoryRow{ID: id}
	if err := conn(ctx, r.db).ModelContext(ctx, row).WherePK().Select(); err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	c := row.toDomain()
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := categoryToRow(category)
	row.ID = 0
	if _, err := conn(ctx, r.db).ModelContext(ctx, row).Returning(`"id"`).Insert(); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	created := row.toDomain()
	return &created, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, categoryToRow(category)).WherePK().Update()
	if err != nil {
		return fmt.Errorf("update category %d: %w", category.ID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, (*categoryRow)(nil)).Where(`"t"."id" = ?`, id).Delete()
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.BlockedError{Resource: "category", ID: id, Reason: domain.ReasonCategoryInUse}
		}
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
