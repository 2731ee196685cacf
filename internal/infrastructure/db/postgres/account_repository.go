package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"

	"github.com/newsroom/news-management/internal/core/domain"
)

type AccountRepository struct {
	db *pg.DB
}

func NewAccountRepository(db *pg.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// List returns accounts whose name or email contains search, ordered by id.
func (r *AccountRepository) List(ctx context.Context, search string) ([]domain.Account, error) {
	var rows []accountRow
	q := conn(ctx, r.db).ModelContext(ctx, &rows)
	if search != "" {
		pattern := searchPattern(search)
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			return q.WhereOr(`"t"."name" ILIKE ?`, pattern).WhereOr(`"t"."email" ILIKE ?`, pattern), nil
		})
	}
	if err := q.OrderExpr(`"t"."id" ASC`).Select(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int) (*domain.Account, error) {
	row := &accountRow{ID: id}
	if err := conn(ctx, r.db).ModelContext(ctx, row).WherePK().Select(); err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account %d: %w", id, err)
	}
	a := row.toDomain()
	return &a, nil
}

// FindByEmail matches the address case-insensitively.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := &accountRow{}
	err := conn(ctx, r.db).ModelContext(ctx, row).
		Where(`lower("t"."email") = lower(?)`, email).
		Limit(1).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	a := row.toDomain()
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := accountToRow(account)
	row.ID = 0
	if _, err := conn(ctx, r.db).ModelContext(ctx, row).Returning(`"id"`).Insert(); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	created := row.toDomain()
	return &created, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, accountToRow(account)).WherePK().Update()
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update account %d: %w", account.ID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Delete removes the account. A foreign key violation from news_articles is
// reported as a BlockedError.
func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ModelContext(ctx, (*accountRow)(nil)).Where(`"t"."id" = ?`, id).Delete()
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.BlockedError{Resource: "account", ID: id, Reason: domain.ReasonAccountHasArticles}
		}
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
