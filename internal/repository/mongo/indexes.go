package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique user indexes the signup path relies on,
// plus the sort indexes used by search. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_1")},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("username_1")},
		{Keys: bson.D{{Key: "firstName", Value: 1}}},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}

	posts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "postDate", Value: -1}}},
		{Keys: bson.D{{Key: "numLikes", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}
	if _, err := db.Collection(PostsCollection).Indexes().CreateMany(ctx, posts); err != nil {
		return fmt.Errorf("creating post indexes: %w", err)
	}
	return nil
}
