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

//go:generate mockgen -source=user_repository.go -destination=../mock/user_repository_mock.go -package=mock

// UserListOptions filters the paginated user listing.
type UserListOptions struct {
	Role    model.Role
	Search  string
	Page    int
	PerPage int
}

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetBySocial(ctx context.Context, provider, subjectID string) (*model.User, error)
	List(ctx context.Context, opts UserListOptions) ([]*model.User, int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role model.Role) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	LinkSocial(ctx context.Context, id primitive.ObjectID, identity model.SocialIdentity) error
	TouchLastAccessed(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(CollectionUsers)}
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	u := &model.User{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByLogin resolves a user by username or email, whichever matches.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	u := &model.User{}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}}
	err := r.col.FindOne(ctx, filter).Decode(u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetBySocial(ctx context.Context, provider, subjectID string) (*model.User, error) {
	u := &model.User{}
	filter := bson.M{"social": bson.M{"$elemMatch": bson.M{
		"provider":   provider,
		"subject_id": subjectID,
	}}}
	err := r.col.FindOne(ctx, filter).Decode(u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, opts UserListOptions) ([]*model.User, int64, error) {
	filter := bson.M{}
	if opts.Role != "" {
		filter["role"] = opts.Role
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexQuote(opts.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": pattern},
			bson.M{"email": pattern},
			bson.M{"display_name": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := listWindow(opts.Page, opts.PerPage)
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []*model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastAccessedAt = now
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role model.Role) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *userRepository) LinkSocial(ctx context.Context, id primitive.ObjectID, identity model.SocialIdentity) error {
	update := bson.M{
		"$addToSet": bson.M{"social": identity},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TouchLastAccessed stamps activity without bumping updated_at, so
// profile edits and logins stay distinguishable.
func (r *userRepository) TouchLastAccessed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_accessed_at": at.UTC()}})
	return err
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) setFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
