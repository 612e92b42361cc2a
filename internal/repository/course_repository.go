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

//go:generate mockgen -source=course_repository.go -destination=../mock/course_repository_mock.go -package=mock

// CourseListOptions filters the paginated course listing. Sort accepts
// "title", "views" and "created_at"; anything else falls back to title.
type CourseListOptions struct {
	MajorID   *primitive.ObjectID
	TeacherID *primitive.ObjectID
	Tag       string
	Search    string
	Sort      string
	Page      int
	PerPage   int
}

type CourseRepository interface {
	List(ctx context.Context, opts CourseListOptions) ([]*model.Course, int64, error)
	ListAllByMajor(ctx context.Context, majorID primitive.ObjectID) ([]*model.Course, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByMajor(ctx context.Context, majorID primitive.ObjectID) (int64, error)
	CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
	AddViews(ctx context.Context, id primitive.ObjectID, delta int64, at time.Time) error
}

type courseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) CourseRepository {
	return &courseRepository{col: db.Collection(CollectionCourses)}
}

func (r *courseRepository) List(ctx context.Context, opts CourseListOptions) ([]*model.Course, int64, error) {
	filter := bson.M{}
	if opts.MajorID != nil {
		filter["major_id"] = *opts.MajorID
	}
	if opts.TeacherID != nil {
		filter["teacher_id"] = *opts.TeacherID
	}
	if opts.Tag != "" {
		filter["tags"] = opts.Tag
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexQuote(opts.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"topics": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := listWindow(opts.Page, opts.PerPage)
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(courseSort(opts.Sort)).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var courses []*model.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func courseSort(field string) bson.D {
	switch field {
	case "views":
		return bson.D{{Key: "views", Value: -1}, {Key: "title", Value: 1}}
	case "created_at":
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "title", Value: 1}}
	}
}

// ListAllByMajor returns a major's complete course list ordered by
// title. This feeds the cached catalog tree, hence no pagination.
func (r *courseRepository) ListAllByMajor(ctx context.Context, majorID primitive.ObjectID) ([]*model.Course, error) {
	cur, err := r.col.Find(ctx, bson.M{"major_id": majorID},
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []*model.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error) {
	c := &model.Course{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	now := time.Now().UTC()
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	course.CreatedAt = now
	course.UpdatedAt = now
	course.LastAccessedAt = now
	_, err := r.col.InsertOne(ctx, course)
	return err
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *courseRepository) CountByMajor(ctx context.Context, majorID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"major_id": majorID})
}

func (r *courseRepository) CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"teacher_id": teacherID})
}

func (r *courseRepository) AddViews(ctx context.Context, id primitive.ObjectID, delta int64, at time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"views": delta},
		"$set": bson.M{"last_accessed_at": at.UTC()},
	})
	return err
}
