package mongo

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{coll: db.Collection(PostsCollection)}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.coll.InsertOne(ctx, newPostDocument(post))
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var doc postDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postDate", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *PostRepo) Search(ctx context.Context, q repository.PostQuery) ([]domain.Post, error) {
	filter := bson.M{}
	if q.Text != "" {
		filter["content"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
	}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": domain.IDStrings(q.IDs)}
	}

	key := "postDate"
	if q.SortBy == repository.SortByLikes {
		key = "numLikes"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: key, Value: sortValue(q.Ascending)}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Page.Skip))
	if q.Page.Limit > 0 {
		opts.SetLimit(int64(q.Page.Limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) (bool, error) {
	update := bson.M{"$set": bson.M{
		"content":  post.Content,
		"likes":    domain.IDStrings(post.Likes),
		"numLikes": len(post.Likes),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": post.ID.String()}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *PostRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]domain.Post, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []domain.Post{}
	for cur.Next(ctx) {
		var doc postDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, cur.Err()
}
