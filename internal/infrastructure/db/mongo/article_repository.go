package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type ArticleRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{db: db, col: db.Collection(collectionArticles)}
}

type articleDoc struct {
	ID           int       `bson:"_id"`
	Title        string    `bson:"title"`
	Headline     string    `bson:"headline"`
	Content      string    `bson:"content"`
	Source       string    `bson:"source"`
	Status       int       `bson:"status"`
	CategoryID   int       `bson:"category_id"`
	CreatedByID  int       `bson:"created_by_id"`
	UpdatedByID  *int      `bson:"updated_by_id,omitempty"`
	CreatedDate  time.Time `bson:"created_date"`
	ModifiedDate time.Time `bson:"modified_date"`
}

func toArticleDoc(a *domain.NewsArticle) articleDoc {
	return articleDoc{
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

func (d articleDoc) toDomain() domain.NewsArticle {
	return domain.NewsArticle{
		ID:           d.ID,
		Title:        d.Title,
		Headline:     d.Headline,
		Content:      d.Content,
		Source:       d.Source,
		Status:       domain.NewsStatus(d.Status),
		CategoryID:   d.CategoryID,
		CreatedByID:  d.CreatedByID,
		UpdatedByID:  d.UpdatedByID,
		CreatedDate:  d.CreatedDate.UTC(),
		ModifiedDate: d.ModifiedDate.UTC(),
		Tags:         []domain.Tag{},
	}
}

func articleFilter(f ports.ArticleFilter) bson.M {
	filter := containsFilter(f.Search, "title", "content")
	if f.ActiveOnly {
		filter["status"] = int(domain.NewsActive)
	}
	if f.CreatedByID != 0 {
		filter["created_by_id"] = f.CreatedByID
	}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From
	}
	if !f.To.IsZero() {
		created["$lte"] = f.To
	}
	if len(created) > 0 {
		filter["created_date"] = created
	}
	return filter
}

func (r *ArticleRepository) List(ctx context.Context, f ports.ArticleFilter) ([]domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, articleFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list news articles: %w", err)
	}
	var docs []articleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode news articles: %w", err)
	}

	articles := make([]domain.NewsArticle, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, d.toDomain())
	}
	if err := r.hydrate(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id int) (*domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d articleDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find news article %d: %w", id, err)
	}

	articles := []domain.NewsArticle{d.toDomain()}
	if err := r.hydrate(ctx, articles); err != nil {
		return nil, err
	}
	return &articles[0], nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.NewsArticle) (*domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionArticles)
	if err != nil {
		return nil, err
	}
	doc := toArticleDoc(article)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert news article: %w", err)
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.NewsArticle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toArticleDoc(article)
	set := bson.M{
		"title":         doc.Title,
		"headline":      doc.Headline,
		"content":       doc.Content,
		"source":        doc.Source,
		"status":        doc.Status,
		"category_id":   doc.CategoryID,
		"updated_by_id": doc.UpdatedByID,
		"modified_date": doc.ModifiedDate,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": article.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update news article %d: %w", article.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete news article %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) CountByCreator(ctx context.Context, accountID int) (int, error) {
	return r.count(ctx, bson.M{"created_by_id": accountID})
}

func (r *ArticleRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	return r.count(ctx, bson.M{"category_id": categoryID})
}

func (r *ArticleRepository) count(ctx context.Context, filter bson.M) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count news articles: %w", err)
	}
	return int(n), nil
}

// hydrate attaches Category, CreatedBy and Tags with one query per
// collection.
func (r *ArticleRepository) hydrate(ctx context.Context, articles []domain.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}

	articleIDs := make([]int, 0, len(articles))
	categoryIDs := make([]int, 0, len(articles))
	accountIDs := make([]int, 0, len(articles))
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
		categoryIDs = append(categoryIDs, a.CategoryID)
		accountIDs = append(accountIDs, a.CreatedByID)
	}

	var categories []categoryDoc
	if err := findIn(ctx, r.db.Collection(collectionCategories), "_id", domain.UniqueIDs(categoryIDs), &categories); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	var accounts []accountDoc
	if err := findIn(ctx, r.db.Collection(collectionAccounts), "_id", domain.UniqueIDs(accountIDs), &accounts); err != nil {
		return fmt.Errorf("load creators: %w", err)
	}
	var links []newsTagDoc
	if err := findIn(ctx, r.db.Collection(collectionNewsTags), "news_article_id", articleIDs, &links); err != nil {
		return fmt.Errorf("load article tags: %w", err)
	}

	tagIDs := make([]int, 0, len(links))
	for _, l := range links {
		tagIDs = append(tagIDs, l.TagID)
	}
	var tags []tagDoc
	if err := findIn(ctx, r.db.Collection(collectionTags), "_id", domain.UniqueIDs(tagIDs), &tags); err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	categoryByID := make(map[int]domain.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c.toDomain()
	}
	accountByID := make(map[int]domain.Account, len(accounts))
	for _, a := range accounts {
		accountByID[a.ID] = a.toDomain()
	}
	tagByID := make(map[int]domain.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t.toDomain()
	}
	tagsByArticle := make(map[int][]domain.Tag, len(articles))
	for _, l := range links {
		if t, ok := tagByID[l.TagID]; ok {
			tagsByArticle[l.ArticleID] = append(tagsByArticle[l.ArticleID], t)
		}
	}

	for i := range articles {
		a := &articles[i]
		if c, ok := categoryByID[a.CategoryID]; ok {
			a.Category = &c
		}
		if acc, ok := accountByID[a.CreatedByID]; ok {
			a.CreatedBy = &acc
		}
		if ts, ok := tagsByArticle[a.ID]; ok {
			a.Tags = ts
		}
	}
	return nil
}

func findIn(ctx context.Context, col *mongo.Collection, field string, ids []int, out interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	cur, err := col.Find(ctx, bson.M{field: bson.M{"$in": ids}}, sortByID)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
