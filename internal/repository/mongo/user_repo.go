package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(UsersCollection)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, newUserDocument(user))
	return mapDuplicateKey(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "accountCreated", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *UserRepo) Search(ctx context.Context, q repository.UserQuery) ([]domain.User, error) {
	filter := bson.M{}
	if q.Text != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"username": pattern},
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
			bson.M{"blurb": pattern},
		}}
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "firstName", Value: sortValue(q.Ascending)}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Page.Skip))
	if q.Page.Limit > 0 {
		opts.SetLimit(int64(q.Page.Limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) (bool, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, newUserDocument(user))
	if err != nil {
		return false, mapDuplicateKey(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func (r *UserRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []domain.User{}
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		u, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, cur.Err()
}

func mapDuplicateKey(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	field := "email"
	if strings.Contains(err.Error(), "username") {
		field = "username"
	}
	return &repository.DuplicateError{Field: field, Err: err}
}

func sortValue(asc bool) int {
	if asc {
		return 1
	}
	return -1
}
