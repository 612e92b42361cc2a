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

//go:generate mockgen -source=comment_repository.go -destination=../mock/comment_repository_mock.go -package=mock

// CommentListOptions paginates top-level comments. Replies ride along
// with their parent and are not paginated separately. IncludeHidden is
// reserved for moderators.
type CommentListOptions struct {
	IncludeHidden bool
	Page          int
	PerPage       int
}

type CommentRepository interface {
	ListByCourse(ctx context.Context, courseID primitive.ObjectID, opts CommentListOptions) ([]*model.CommentThread, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error
	DeleteWithReplies(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error)
}

type commentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{col: db.Collection(CollectionComments)}
}

func (r *commentRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID, opts CommentListOptions) ([]*model.CommentThread, int64, error) {
	filter := bson.M{"course_id": courseID, "parent_id": nil}
	if !opts.IncludeHidden {
		filter["hidden"] = false
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := listWindow(opts.Page, opts.PerPage)
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var parents []*model.Comment
	if err := cur.All(ctx, &parents); err != nil {
		return nil, 0, err
	}
	if len(parents) == 0 {
		return []*model.CommentThread{}, total, nil
	}

	parentIDs := make([]primitive.ObjectID, 0, len(parents))
	threads := make([]*model.CommentThread, 0, len(parents))
	byParent := make(map[primitive.ObjectID]*model.CommentThread, len(parents))
	for _, p := range parents {
		thread := &model.CommentThread{Comment: p, Replies: []*model.Comment{}}
		threads = append(threads, thread)
		byParent[p.ID] = thread
		parentIDs = append(parentIDs, p.ID)
	}

	replyFilter := bson.M{"parent_id": bson.M{"$in": parentIDs}}
	if !opts.IncludeHidden {
		replyFilter["hidden"] = false
	}
	replyCur, err := r.col.Find(ctx, replyFilter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	defer replyCur.Close(ctx)

	var replies []*model.Comment
	if err := replyCur.All(ctx, &replies); err != nil {
		return nil, 0, err
	}
	for _, reply := range replies {
		if thread, ok := byParent[*reply.ParentID]; ok {
			thread.Replies = append(thread.Replies, reply)
		}
	}

	return threads, total, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	c := &model.Comment{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	comment.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, comment)
	return err
}

func (r *commentRepository) SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"hidden": hidden}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteWithReplies removes a comment and, for top-level comments, the
// replies under it, so threads never lose their root.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": id},
		bson.M{"parent_id": id},
	}})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, mongo.ErrNoDocuments
	}
	return res.DeletedCount, nil
}

func (r *commentRepository) DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
