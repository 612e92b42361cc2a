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

//go:generate mockgen -source=teacher_repository.go -destination=../mock/teacher_repository_mock.go -package=mock

// TeacherListOptions filters the paginated teacher listing.
type TeacherListOptions struct {
	Faculty string
	Search  string
	Page    int
	PerPage int
}

type TeacherRepository interface {
	List(ctx context.Context, opts TeacherListOptions) ([]*model.Teacher, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Teacher, error)
	Create(ctx context.Context, teacher *model.Teacher) error
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddViews(ctx context.Context, id primitive.ObjectID, delta int64, at time.Time) error
}

type teacherRepository struct {
	col *mongo.Collection
}

func NewTeacherRepository(db *mongo.Database) TeacherRepository {
	return &teacherRepository{col: db.Collection(CollectionTeachers)}
}

func (r *teacherRepository) List(ctx context.Context, opts TeacherListOptions) ([]*model.Teacher, int64, error) {
	filter := bson.M{}
	if opts.Faculty != "" {
		filter["faculty"] = opts.Faculty
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexQuote(opts.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": pattern},
			bson.M{"last_name": pattern},
			bson.M{"departments": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := listWindow(opts.Page, opts.PerPage)
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var teachers []*model.Teacher
	if err := cur.All(ctx, &teachers); err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	now := time.Now().UTC()
	if teacher.ID.IsZero() {
		teacher.ID = primitive.NewObjectID()
	}
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	teacher.LastAccessedAt = now
	_, err := r.col.InsertOne(ctx, teacher)
	return err
}

func (r *teacherRepository) Update(ctx context.Context, teacher *model.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": teacher.ID}, teacher)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *teacherRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddViews folds a batch of page visits into the counter. Missing ids
// are ignored: the subject may have been deleted while events were
// still queued.
func (r *teacherRepository) AddViews(ctx context.Context, id primitive.ObjectID, delta int64, at time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"views": delta},
		"$set": bson.M{"last_accessed_at": at.UTC()},
	})
	return err
}
