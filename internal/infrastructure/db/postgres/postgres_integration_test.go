package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

var baseTime = time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

// setupTestDB starts a PostgreSQL container, applies the migrations and
// returns a connected pool.
func setupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("news_test"),
		tcpostgres.WithUsername("news"),
		tcpostgres.WithPassword("news"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, url))

	db, err := Connect(ctx, Config{URL: url, LogQueries: true}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func truncate(t *testing.T, db *pg.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE TABLE news_tags, news_articles, tags, categories, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

type fixture struct {
	accounts   *AccountRepository
	categories *CategoryRepository
	tags       *TagRepository
	articles   *ArticleRepository
	newsTags   *NewsTagRepository
	tx         *TxManager
}

func newFixture(db *pg.DB) fixture {
	return fixture{
		accounts:   NewAccountRepository(db),
		categories: NewCategoryRepository(db),
		tags:       NewTagRepository(db),
		articles:   NewArticleRepository(db),
		newsTags:   NewNewsTagRepository(db),
		tx:         NewTxManager(db),
	}
}

func (f fixture) seedArticle(t *testing.T, title string, status domain.NewsStatus, categoryID, creatorID int, created time.Time) *domain.NewsArticle {
	t.Helper()
	a, err := f.articles.Create(context.Background(), &domain.NewsArticle{
		Title:        title,
		Headline:     title + " headline",
		Content:      title + " content",
		Source:       "wire",
		Status:       status,
		CategoryID:   categoryID,
		CreatedByID:  creatorID,
		UpdatedByID:  &creatorID,
		CreatedDate:  created,
		ModifiedDate: created,
	})
	require.NoError(t, err)
	return a
}

func TestPostgresRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("accounts", func(t *testing.T) {
		truncate(t, db)
		f := newFixture(db)

		created, err := f.accounts.Create(ctx, &domain.Account{Name: "Ann", Email: "ann@news.local", PasswordHash: "h", Role: domain.RoleStaff})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		_, err = f.accounts.Create(ctx, &domain.Account{Name: "Dup", Email: "ANN@news.local", PasswordHash: "h", Role: domain.RoleStaff})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)

		found, err := f.accounts.FindByEmail(ctx, "Ann@News.Local")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, domain.RoleStaff, found.Role)

		list, err := f.accounts.List(ctx, "news.local")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		list, err = f.accounts.List(ctx, "100%")
		require.NoError(t, err)
		assert.Empty(t, list)

		found.Name = "Ann B"
		require.NoError(t, f.accounts.Update(ctx, found))
		assert.ErrorIs(t, f.accounts.Update(ctx, &domain.Account{ID: 999, Email: "x@y"}), domain.ErrAccountNotFound)

		require.NoError(t, f.accounts.Delete(ctx, created.ID))
		_, err = f.accounts.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("articles with tags", func(t *testing.T) {
		truncate(t, db)
		f := newFixture(db)

		author, err := f.accounts.Create(ctx, &domain.Account{Name: "X", Email: "x@news.local", PasswordHash: "h", Role: domain.RoleStaff})
		require.NoError(t, err)
		cat, err := f.categories.Create(ctx, &domain.Category{Name: "A", IsActive: true})
		require.NoError(t, err)

		var tagIDs []int
		for _, name := range []string{"t1", "t2", "t3", "t4", "t5"} {
			tg, err := f.tags.Create(ctx, &domain.Tag{Name: name})
			require.NoError(t, err)
			tagIDs = append(tagIDs, tg.ID)
		}

		older := f.seedArticle(t, "older", domain.NewsActive, cat.ID, author.ID, baseTime)
		hidden := f.seedArticle(t, "hidden", domain.NewsInactive, cat.ID, author.ID, baseTime.Add(time.Hour))
		newer := f.seedArticle(t, "newer", domain.NewsActive, cat.ID, author.ID, baseTime.Add(2*time.Hour))

		require.NoError(t, f.newsTags.Replace(ctx, older.ID, []int{tagIDs[0], tagIDs[2]}))
		require.NoError(t, f.newsTags.Replace(ctx, older.ID, []int{tagIDs[2], tagIDs[4]}))
		ids, err := f.newsTags.TagIDs(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{tagIDs[2], tagIDs[4]}, ids)

		active, err := f.articles.List(ctx, ports.ArticleFilter{ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, newer.ID, active[0].ID)
		assert.Equal(t, older.ID, active[1].ID)
		assert.Len(t, active[1].Tags, 2)
		require.NotNil(t, active[1].Category)
		assert.Equal(t, "A", active[1].Category.Name)
		require.NotNil(t, active[1].CreatedBy)
		assert.Equal(t, "X", active[1].CreatedBy.Name)

		all, err := f.articles.List(ctx, ports.ArticleFilter{Search: "HIDD"})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, hidden.ID, all[0].ID)

		ranged, err := f.articles.List(ctx, ports.ArticleFilter{From: baseTime, To: baseTime.Add(time.Hour)})
		require.NoError(t, err)
		assert.Len(t, ranged, 2)

		n, err := f.articles.CountByCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		err = f.categories.Delete(ctx, cat.ID)
		assert.ErrorIs(t, err, domain.ErrBlocked)

		err = f.accounts.Delete(ctx, author.ID)
		assert.ErrorIs(t, err, domain.ErrBlocked)

		require.NoError(t, f.newsTags.DeleteByTag(ctx, tagIDs[2]))
		ids, err = f.newsTags.TagIDs(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{tagIDs[4]}, ids)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		truncate(t, db)
		f := newFixture(db)

		author, err := f.accounts.Create(ctx, &domain.Account{Name: "X", Email: "x@news.local", PasswordHash: "h", Role: domain.RoleStaff})
		require.NoError(t, err)
		cat, err := f.categories.Create(ctx, &domain.Category{Name: "A"})
		require.NoError(t, err)
		article := f.seedArticle(t, "kept", domain.NewsActive, cat.ID, author.ID, baseTime)

		boom := errors.New("boom")
		err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
			article.Title = "changed"
			if err := f.articles.Update(ctx, article); err != nil {
				return err
			}
			// a missing tag violates the foreign key and aborts the transaction
			if err := f.newsTags.Replace(ctx, article.ID, []int{424242}); err != nil {
				return err
			}
			return boom
		})
		require.Error(t, err)

		stored, err := f.articles.FindByID(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, "kept", stored.Title)
		assert.Empty(t, stored.Tags)
	})
}
