package mongo

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

var baseTime = time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

// setupTestDB starts a single-node replica set so that transactions work and
// returns a connected client and database.
func setupTestDB(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7", tcmongo.WithReplicaSet("rs0"))
	require.NoError(t, err, "start mongo container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	raw, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	uri, err := url.Parse(raw)
	require.NoError(t, err)
	q := uri.Query()
	q.Set("directConnection", "true")
	uri.RawQuery = q.Encode()

	client, db, err := Connect(ctx, Config{URI: uri.String(), Database: "news_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client, db
}

func reset(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Drop(ctx))
	require.NoError(t, EnsureIndexes(ctx, db))
}

type fixture struct {
	accounts   *AccountRepository
	categories *CategoryRepository
	tags       *TagRepository
	articles   *ArticleRepository
	newsTags   *NewsTagRepository
	tx         *TxManager
}

func newFixture(client *mongo.Client, db *mongo.Database) fixture {
	return fixture{
		accounts:   NewAccountRepository(db),
		categories: NewCategoryRepository(db),
		tags:       NewTagRepository(db),
		articles:   NewArticleRepository(db),
		newsTags:   NewNewsTagRepository(db),
		tx:         NewTxManager(client),
	}
}

func (f fixture) seed(t *testing.T) (domain.Account, domain.Category, []domain.Tag) {
	t.Helper()
	ctx := context.Background()

	acc, err := f.accounts.Create(ctx, &domain.Account{Name: "Ann", Email: "ann@news.local", PasswordHash: "h", Role: domain.RoleStaff})
	require.NoError(t, err)
	cat, err := f.categories.Create(ctx, &domain.Category{Name: "World", IsActive: true})
	require.NoError(t, err)

	var tags []domain.Tag
	for _, name := range []string{"politics", "economy", "sport", "science"} {
		tag, err := f.tags.Create(ctx, &domain.Tag{Name: name})
		require.NoError(t, err)
		tags = append(tags, *tag)
	}
	return *acc, *cat, tags
}

func (f fixture) seedArticle(ctx context.Context, t *testing.T, title string, categoryID, creatorID int, created time.Time) *domain.NewsArticle {
	t.Helper()
	a, err := f.articles.Create(ctx, &domain.NewsArticle{
		Title:        title,
		Headline:     title + " headline",
		Content:      title + " content",
		Source:       "wire",
		Status:       domain.NewsActive,
		CategoryID:   categoryID,
		CreatedByID:  creatorID,
		UpdatedByID:  &creatorID,
		CreatedDate:  created,
		ModifiedDate: created,
	})
	require.NoError(t, err)
	return a
}

func TestMongoRepositories(t *testing.T) {
	client, db := setupTestDB(t)
	ctx := context.Background()

	t.Run("sequential ids per collection", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)

		_, cat, tags := f.seed(t)
		assert.Equal(t, 1, cat.ID)
		for i, tag := range tags {
			assert.Equal(t, i+1, tag.ID)
		}

		_, err := f.accounts.Create(ctx, &domain.Account{Name: "Dup", Email: "ANN@news.local", PasswordHash: "h", Role: domain.RoleStaff})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("find hydrates category creator and tags", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, tags := f.seed(t)

		a := f.seedArticle(ctx, t, "Budget", cat.ID, acc.ID, baseTime)
		require.NoError(t, f.newsTags.Replace(ctx, a.ID, []int{tags[0].ID, tags[1].ID}))

		found, err := f.articles.FindByID(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Category)
		require.NotNil(t, found.CreatedBy)
		assert.Equal(t, "World", found.Category.Name)
		assert.Equal(t, "Ann", found.CreatedBy.Name)
		assert.ElementsMatch(t, []domain.Tag{tags[0], tags[1]}, found.Tags)
		assert.True(t, found.CreatedDate.Equal(baseTime))

		_, err = f.articles.FindByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrArticleNotFound)
	})

	t.Run("list orders newest first and filters", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, _ := f.seed(t)

		old := f.seedArticle(ctx, t, "Old election", cat.ID, acc.ID, baseTime)
		newer := f.seedArticle(ctx, t, "New election", cat.ID, acc.ID, baseTime.Add(time.Hour))
		f.seedArticle(ctx, t, "Weather", cat.ID, acc.ID, baseTime.Add(2*time.Hour))

		list, err := f.articles.List(ctx, ports.ArticleFilter{Search: "ELECTION"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, old.ID, list[1].ID)
		assert.NotNil(t, list[0].Category)

		ranged, err := f.articles.List(ctx, ports.ArticleFilter{From: baseTime.Add(30 * time.Minute), To: baseTime.Add(90 * time.Minute)})
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, newer.ID, ranged[0].ID)
	})

	t.Run("replace swaps the tag set", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, tags := f.seed(t)
		a := f.seedArticle(ctx, t, "Match", cat.ID, acc.ID, baseTime)

		require.NoError(t, f.newsTags.Replace(ctx, a.ID, []int{tags[0].ID, tags[1].ID}))
		require.NoError(t, f.tx.WithinTx(ctx, func(ctx context.Context) error {
			return f.newsTags.Replace(ctx, a.ID, []int{tags[1].ID, tags[2].ID})
		}))

		ids, err := f.newsTags.TagIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{tags[1].ID, tags[2].ID}, ids)

		require.NoError(t, f.newsTags.Replace(ctx, a.ID, nil))
		ids, err = f.newsTags.TagIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("duplicate links roll the replace back", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, tags := f.seed(t)
		a := f.seedArticle(ctx, t, "Match", cat.ID, acc.ID, baseTime)
		require.NoError(t, f.newsTags.Replace(ctx, a.ID, []int{tags[0].ID}))

		err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
			return f.newsTags.Replace(ctx, a.ID, []int{tags[3].ID, tags[3].ID})
		})
		require.Error(t, err)

		ids, err := f.newsTags.TagIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{tags[0].ID}, ids, "the unique index rejects the batch and the old set survives")
	})

	t.Run("tx rollback discards writes", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, _ := f.seed(t)
		boom := errors.New("boom")

		var createdID int
		err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
			a := f.seedArticle(ctx, t, "Doomed", cat.ID, acc.ID, baseTime)
			createdID = a.ID
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = f.articles.FindByID(ctx, createdID)
		assert.ErrorIs(t, err, domain.ErrArticleNotFound)

		n, err := f.articles.CountByCreator(ctx, acc.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("nested tx joins the outer session", func(t *testing.T) {
		reset(t, db)
		f := newFixture(client, db)
		acc, cat, _ := f.seed(t)

		err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
			f.seedArticle(ctx, t, "Outer", cat.ID, acc.ID, baseTime)
			return f.tx.WithinTx(ctx, func(ctx context.Context) error {
				f.seedArticle(ctx, t, "Inner", cat.ID, acc.ID, baseTime)
				return errors.New("inner failed")
			})
		})
		require.Error(t, err)

		n, err := f.articles.CountByCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Zero(t, n, "inner failure aborts the whole transaction")
	})
}
