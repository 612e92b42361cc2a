package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

// FeedbackService accepts ratings and comments. Ratings are
// write-behind: the HTTP path only queues them, the rating worker does
// the persistence. Comments are written directly but their moderation
// events fan out over pub/sub.
type FeedbackService struct {
	ratingRepo  repository.RatingRepository
	commentRepo repository.CommentRepository
	courseRepo  repository.CourseRepository
	teacherRepo repository.TeacherRepository
	rdb         *redis.Client
	cfg         *config.Config
	log         zerolog.Logger
}

func NewFeedbackService(
	ratingRepo repository.RatingRepository,
	commentRepo repository.CommentRepository,
	courseRepo repository.CourseRepository,
	teacherRepo repository.TeacherRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *FeedbackService {
	return &FeedbackService{
		ratingRepo:  ratingRepo,
		commentRepo: commentRepo,
		courseRepo:  courseRepo,
		teacherRepo: teacherRepo,
		rdb:         rdb,
		cfg:         cfg,
		log:         logger.Component(log, "feedback_service"),
	}
}

// SubmitRating validates and queues a rating. The caller gets an
// acknowledgement, not the persisted document; the worker applies it.
func (s *FeedbackService) SubmitRating(ctx context.Context, subjectType model.SubjectType, subjectID, userID primitive.ObjectID, grade model.Grade) error {
	if !grade.Valid() {
		return ErrInvalidGrade
	}
	if err := s.checkSubject(ctx, subjectType, subjectID); err != nil {
		return err
	}

	submission := model.RatingSubmission{
		SubjectType: subjectType,
		SubjectID:   subjectID.Hex(),
		UserID:      userID.Hex(),
		Grade:       grade,
		SubmittedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	if err := s.rdb.LPush(ctx, config.WorkerKey.PersistRatingsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Msg("Rating queue push failed")
		return ErrQueueUnavailable
	}
	return nil
}

// GetRatingSummary serves the aggregate, cache-aside. The rating worker
// refreshes this key after every applied submission, so misses happen
// only after idle TTL expiry.
func (s *FeedbackService) GetRatingSummary(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) (*model.RatingSummary, error) {
	if err := s.checkSubject(ctx, subjectType, subjectID); err != nil {
		return nil, err
	}

	key := config.CacheKey.RatingSummaryKey(string(subjectType), subjectID.Hex())
	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		summary := &model.RatingSummary{}
		if err := json.Unmarshal(cached, summary); err == nil {
			return summary, nil
		}
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Summary cache read failed, serving from database")
	}

	counts, err := s.ratingRepo.Summarize(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}
	summary := model.NewRatingSummary(subjectType, subjectID.Hex(), counts)

	if payload, err := json.Marshal(summary); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cfg.CatalogCacheTTL.Std()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Summary cache write failed")
		}
	}
	return summary, nil
}

// GetUserRating returns the caller's own grade for a subject.
func (s *FeedbackService) GetUserRating(ctx context.Context, subjectType model.SubjectType, subjectID, userID primitive.ObjectID) (*model.Rating, error) {
	rating, err := s.ratingRepo.GetUserGrade(ctx, subjectType, subjectID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

func (s *FeedbackService) ListComments(ctx context.Context, courseID primitive.ObjectID, opts repository.CommentListOptions) ([]*model.CommentThread, int64, error) {
	if err := s.checkSubject(ctx, model.SubjectCourse, courseID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByCourse(ctx, courseID, opts)
}

// CreateComment writes a comment or a reply. Replies stay one level
// deep and cannot attach to hidden parents.
func (s *FeedbackService) CreateComment(ctx context.Context, courseID primitive.ObjectID, author *model.User, req *model.CreateCommentRequest) (*model.Comment, error) {
	if err := s.checkSubject(ctx, model.SubjectCourse, courseID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		CourseID:   courseID,
		UserID:     author.ID,
		AuthorName: author.DisplayName,
		Text:       req.Text,
	}

	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", ErrNotFound)
		}
		parent, err := s.commentRepo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("parent: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.CourseID != courseID {
			return nil, fmt.Errorf("parent: %w", ErrNotFound)
		}
		if parent.ParentID != nil {
			return nil, ErrReplyDepth
		}
		if parent.Hidden {
			return nil, ErrParentHidden
		}
		comment.ParentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.publish(ctx, model.FeedbackEvent{
		Type:      model.FeedbackCommentCreated,
		CourseID:  courseID.Hex(),
		CommentID: comment.ID.Hex(),
		UserID:    author.ID.Hex(),
		At:        comment.CreatedAt,
	})
	return comment, nil
}

// DeleteComment removes a comment thread. Authors may delete their own
// comments; moderators may delete any.
func (s *FeedbackService) DeleteComment(ctx context.Context, id, actorID primitive.ObjectID, canModerate bool) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.UserID != actorID && !canModerate {
		return ErrActionForbidden
	}

	if _, err := s.commentRepo.DeleteWithReplies(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.publish(ctx, model.FeedbackEvent{
		Type:      model.FeedbackCommentDeleted,
		CourseID:  comment.CourseID.Hex(),
		CommentID: id.Hex(),
		UserID:    actorID.Hex(),
		At:        time.Now().UTC(),
	})
	return nil
}

// SetCommentHidden flips the moderation flag. Hidden comments stay in
// the collection and remain visible to moderators.
func (s *FeedbackService) SetCommentHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}

	if err := s.commentRepo.SetHidden(ctx, id, hidden); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("set hidden: %w", err)
	}

	eventType := model.FeedbackCommentHidden
	if !hidden {
		eventType = model.FeedbackCommentUnhidden
	}
	s.publish(ctx, model.FeedbackEvent{
		Type:      eventType,
		CourseID:  comment.CourseID.Hex(),
		CommentID: id.Hex(),
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *FeedbackService) checkSubject(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) error {
	var err error
	switch subjectType {
	case model.SubjectCourse:
		_, err = s.courseRepo.GetByID(ctx, subjectID)
	case model.SubjectTeacher:
		_, err = s.teacherRepo.GetByID(ctx, subjectID)
	default:
		return ErrNotFound
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("check subject: %w", err)
	}
	return nil
}

// publish pushes a feedback event to the pub/sub channel feeding the
// moderation stream. Best effort: a dropped event never fails the write
// it describes.
func (s *FeedbackService) publish(ctx context.Context, event model.FeedbackEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.FeedbackChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("type", string(event.Type)).Msg("Feedback event publish failed")
	}
}
