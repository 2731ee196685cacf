package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NewsTagRepository struct {
	col *mongo.Collection
}

func NewNewsTagRepository(db *mongo.Database) *NewsTagRepository {
	return &NewsTagRepository{col: db.Collection(collectionNewsTags)}
}

type newsTagDoc struct {
	ArticleID int `bson:"news_article_id"`
	TagID     int `bson:"tag_id"`
}

func (r *NewsTagRepository) TagIDs(ctx context.Context, articleID int) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "tag_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"news_article_id": articleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tag ids of article %d: %w", articleID, err)
	}
	var docs []newsTagDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tag links: %w", err)
	}

	ids := make([]int, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.TagID)
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

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(tagIDs))
	for _, id := range tagIDs {
		docs = append(docs, newsTagDoc{ArticleID: articleID, TagID: id})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert tags of article %d: %w", articleID, err)
	}
	return nil
}

func (r *NewsTagRepository) DeleteByArticle(ctx context.Context, articleID int) error {
	return r.deleteMany(ctx, bson.M{"news_article_id": articleID})
}

func (r *NewsTagRepository) DeleteByTag(ctx context.Context, tagID int) error {
	return r.deleteMany(ctx, bson.M{"tag_id": tagID})
}

func (r *NewsTagRepository) deleteMany(ctx context.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	return nil
}
