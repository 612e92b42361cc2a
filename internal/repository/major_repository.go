package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librekpi/backend/internal/model"
)

//go:generate mockgen -source=major_repository.go -destination=../mock/major_repository_mock.go -package=mock

// The majors collection stays small enough to list without pagination,
// which is also what lets the whole listing live in cache.
type MajorRepository interface {
	GetAll(ctx context.Context) ([]*model.Major, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Major, error)
	GetByCode(ctx context.Context, code string) (*model.Major, error)
	Create(ctx context.Context, major *model.Major) error
	Update(ctx context.Context, major *model.Major) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type majorRepository struct {
	col *mongo.Collection
}

func NewMajorRepository(db *mongo.Database) MajorRepository {
	return &majorRepository{col: db.Collection(CollectionMajors)}
}

func (r *majorRepository) GetAll(ctx context.Context) ([]*model.Major, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var majors []*model.Major
	if err := cur.All(ctx, &majors); err != nil {
		return nil, err
	}
	return majors, nil
}

func (r *majorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Major, error) {
	m := &model.Major{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *majorRepository) GetByCode(ctx context.Context, code string) (*model.Major, error) {
	m := &model.Major{}
	err := r.col.FindOne(ctx, bson.M{"code": code}).Decode(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *majorRepository) Create(ctx context.Context, major *model.Major) error {
	now := time.Now().UTC()
	if major.ID.IsZero() {
		major.ID = primitive.NewObjectID()
	}
	major.CreatedAt = now
	major.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, major)
	return err
}

func (r *majorRepository) Update(ctx context.Context, major *model.Major) error {
	major.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": major.ID}, major)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *majorRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
