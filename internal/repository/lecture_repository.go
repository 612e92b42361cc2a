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

//go:generate mockgen -source=lecture_repository.go -destination=../mock/lecture_repository_mock.go -package=mock

type LectureRepository interface {
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*model.Lecture, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Lecture, error)
	Create(ctx context.Context, lecture *model.Lecture) error
	Update(ctx context.Context, lecture *model.Lecture) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error)
}

type lectureRepository struct {
	col *mongo.Collection
}

func NewLectureRepository(db *mongo.Database) LectureRepository {
	return &lectureRepository{col: db.Collection(CollectionLectures)}
}

// ListByCourse returns every lecture of a course ordered by number.
// Courses hold dozens of lectures at most, so no pagination here.
func (r *lectureRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*model.Lecture, error) {
	cur, err := r.col.Find(ctx, bson.M{"course_id": courseID},
		options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var lectures []*model.Lecture
	if err := cur.All(ctx, &lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *lectureRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Lecture, error) {
	l := &model.Lecture{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(l)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *lectureRepository) Create(ctx context.Context, lecture *model.Lecture) error {
	now := time.Now().UTC()
	if lecture.ID.IsZero() {
		lecture.ID = primitive.NewObjectID()
	}
	lecture.CreatedAt = now
	lecture.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, lecture)
	return err
}

func (r *lectureRepository) Update(ctx context.Context, lecture *model.Lecture) error {
	lecture.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": lecture.ID}, lecture)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *lectureRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *lectureRepository) DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
