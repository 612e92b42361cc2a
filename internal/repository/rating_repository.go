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

//go:generate mockgen -source=rating_repository.go -destination=../mock/rating_repository_mock.go -package=mock

type RatingRepository interface {
	Upsert(ctx context.Context, rating *model.Rating) error
	GetUserGrade(ctx context.Context, subjectType model.SubjectType, subjectID, userID primitive.ObjectID) (*model.Rating, error)
	Summarize(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) (map[model.Grade]int64, error)
	DeleteBySubject(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type ratingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) RatingRepository {
	return &ratingRepository{col: db.Collection(CollectionRatings)}
}

// Upsert stores the user's current grade for a subject. A second
// submission from the same user replaces the first; the unique index
// on (subject_type, subject_id, user_id) backs this up.
func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	now := time.Now().UTC()
	filter := bson.M{
		"subject_type": rating.SubjectType,
		"subject_id":   rating.SubjectID,
		"user_id":      rating.UserID,
	}
	update := bson.M{
		"$set": bson.M{
			"grade":      rating.Grade,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ratingRepository) GetUserGrade(ctx context.Context, subjectType model.SubjectType, subjectID, userID primitive.ObjectID) (*model.Rating, error) {
	rating := &model.Rating{}
	filter := bson.M{
		"subject_type": subjectType,
		"subject_id":   subjectID,
		"user_id":      userID,
	}
	err := r.col.FindOne(ctx, filter).Decode(rating)
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// Summarize groups the subject's ratings by grade. Grades missing from
// the result simply have no votes yet.
func (r *ratingRepository) Summarize(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) (map[model.Grade]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"subject_type": subjectType,
			"subject_id":   subjectID,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$grade",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Grade model.Grade `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[model.Grade]int64, len(rows))
	for _, row := range rows {
		counts[row.Grade] = row.Count
	}
	return counts, nil
}

func (r *ratingRepository) DeleteBySubject(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"subject_type": subjectType,
		"subject_id":   subjectID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
