package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/newsroom/news-management/internal/core/domain"
)

type TagRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{db: db, col: db.Collection(collectionTags)}
}

type tagDoc struct {
	ID   int    `bson:"_id"`
	Name string `bson:"name"`
	Note string `bson:"note"`
}

func (d tagDoc) toDomain() domain.Tag {
	return domain.Tag{ID: d.ID, Name: d.Name, Note: d.Note}
}

func (r *TagRepository) List(ctx context.Context, search string) ([]domain.Tag, error) {
	return r.find(ctx, containsFilter(search, "name", "note"))
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *TagRepository) find(ctx context.Context, filter bson.M) ([]domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, sortByID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	var docs []tagDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	out := make([]domain.Tag, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id int) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d tagDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	t := d.toDomain()
	return &t, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionTags)
	if err != nil {
		return nil, err
	}
	doc := tagDoc{ID: id, Name: tag.Name, Note: tag.Note}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": tag.ID}, tagDoc{ID: tag.ID, Name: tag.Name, Note: tag.Note})
	if err != nil {
		return fmt.Errorf("update tag %d: %w", tag.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}
