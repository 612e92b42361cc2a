package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

// RatingWorker consumes persist_ratings_queue and upserts grades into
// Mongo. After every applied submission it rebuilds the subject's
// cached summary and announces the change on the feedback channel, so
// readers and the moderation stream see new grades without polling.
type RatingWorker struct {
	ratingRepo repository.RatingRepository
	rdb        *redis.Client
	cfg        *config.Config
	log        zerolog.Logger
}

// NewRatingWorker creates a new RatingWorker.
func NewRatingWorker(ratingRepo repository.RatingRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *RatingWorker {
	return &RatingWorker{
		ratingRepo: ratingRepo,
		rdb:        rdb,
		cfg:        cfg,
		log:        logger.Component(log, "rating_worker"),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *RatingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining submissions before exit so accepted
			// ratings are not lost across a deploy.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *RatingWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistRatingsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.apply(ctx, []byte(result[1])); err != nil {
		if errors.Is(err, errBadSubmission) {
			// A malformed payload would fail forever; drop it.
			w.log.Error().Err(err).Str("payload", result[1]).Msg("Submission dropped")
			return
		}
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		w.rdb.RPush(ctx, config.WorkerKey.PersistRatingsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

var errBadSubmission = errors.New("bad rating submission")

func (w *RatingWorker) apply(ctx context.Context, payload []byte) error {
	var submission model.RatingSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return errBadSubmission
	}

	subjectID, err := primitive.ObjectIDFromHex(submission.SubjectID)
	if err != nil {
		return errBadSubmission
	}
	userID, err := primitive.ObjectIDFromHex(submission.UserID)
	if err != nil {
		return errBadSubmission
	}
	if !submission.Grade.Valid() || !submission.SubjectType.Valid() {
		return errBadSubmission
	}

	if err := w.ratingRepo.Upsert(ctx, &model.Rating{
		SubjectType: submission.SubjectType,
		SubjectID:   subjectID,
		UserID:      userID,
		Grade:       submission.Grade,
	}); err != nil {
		return err
	}

	w.refreshSummary(ctx, submission.SubjectType, subjectID)
	w.announce(ctx, submission)

	w.log.Debug().
		Str("subject_id", submission.SubjectID).
		Str("grade", string(submission.Grade)).
		Msg("Rating applied")
	return nil
}

// refreshSummary rebuilds the cached aggregate right after a write.
// Failures only log: the cache-aside read path recomputes on demand.
func (w *RatingWorker) refreshSummary(ctx context.Context, subjectType model.SubjectType, subjectID primitive.ObjectID) {
	counts, err := w.ratingRepo.Summarize(ctx, subjectType, subjectID)
	if err != nil {
		w.log.Warn().Err(err).Str("subject_id", subjectID.Hex()).Msg("Summary rebuild failed")
		return
	}
	summary := model.NewRatingSummary(subjectType, subjectID.Hex(), counts)

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	key := config.CacheKey.RatingSummaryKey(string(subjectType), subjectID.Hex())
	if err := w.rdb.Set(ctx, key, data, w.cfg.CatalogCacheTTL.Std()).Err(); err != nil {
		w.log.Warn().Err(err).Msg("Summary cache write failed")
	}
}

func (w *RatingWorker) announce(ctx context.Context, submission model.RatingSubmission) {
	event := model.FeedbackEvent{
		Type:        model.FeedbackRatingSaved,
		SubjectType: submission.SubjectType,
		SubjectID:   submission.SubjectID,
		UserID:      submission.UserID,
		Grade:       submission.Grade,
		At:          time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := w.rdb.Publish(ctx, config.CacheKey.FeedbackChannel(), data).Err(); err != nil {
		w.log.Warn().Err(err).Msg("Feedback event publish failed")
	}
}

// drain processes all remaining submissions in the queue before shutdown.
func (w *RatingWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistRatingsQueue).Result()
		if err != nil {
			break
		}

		if err := w.apply(ctx, []byte(result)); err != nil {
			if errors.Is(err, errBadSubmission) {
				w.log.Error().Err(err).Msg("Drain dropped bad submission")
				continue
			}
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistRatingsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining submissions")
	}
}
