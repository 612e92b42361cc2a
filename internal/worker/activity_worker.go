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

const (
	activityFlushInterval = 5 * time.Second
	activityMaxBatch      = 256
)

// ActivityWorker consumes activity_events_queue and folds page visits
// into view counters. Events are batched per subject, so a hot course
// costs one Mongo update per flush instead of one per visit.
type ActivityWorker struct {
	courseRepo  repository.CourseRepository
	teacherRepo repository.TeacherRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(courseRepo repository.CourseRepository, teacherRepo repository.TeacherRepository, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		courseRepo:  courseRepo,
		teacherRepo: teacherRepo,
		rdb:         rdb,
		log:         logger.Component(log, "activity_worker"),
	}
}

type activityKey struct {
	subjectType model.SubjectType
	subjectID   primitive.ObjectID
}

type activityBatch struct {
	count  int64
	lastAt time.Time
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(activityFlushInterval)
	defer ticker.Stop()

	batch := make(map[activityKey]*activityBatch)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background(), batch)
			w.flush(context.Background(), batch)
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.flush(ctx, batch)
		default:
			w.collectOne(ctx, batch)
			if len(batch) >= activityMaxBatch {
				w.flush(ctx, batch)
			}
		}
	}
}

func (w *ActivityWorker) collectOne(ctx context.Context, batch map[activityKey]*activityBatch) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.ActivityEventsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}
	w.accumulate(batch, []byte(result[1]))
}

func (w *ActivityWorker) accumulate(batch map[activityKey]*activityBatch, payload []byte) {
	var event model.ActivityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.log.Warn().Err(err).Msg("Malformed activity event dropped")
		return
	}
	id, err := primitive.ObjectIDFromHex(event.SubjectID)
	if err != nil || !event.SubjectType.Valid() {
		w.log.Warn().Str("subject_id", event.SubjectID).Msg("Malformed activity event dropped")
		return
	}

	key := activityKey{subjectType: event.SubjectType, subjectID: id}
	entry, ok := batch[key]
	if !ok {
		entry = &activityBatch{}
		batch[key] = entry
	}
	entry.count++
	if event.At.After(entry.lastAt) {
		entry.lastAt = event.At
	}
}

// flush applies the accumulated deltas and empties the batch. A failed
// update is logged and discarded: view counters are a convenience
// metric and dropping a few visits is preferable to blocking the queue.
func (w *ActivityWorker) flush(ctx context.Context, batch map[activityKey]*activityBatch) {
	if len(batch) == 0 {
		return
	}

	for key, entry := range batch {
		var err error
		switch key.subjectType {
		case model.SubjectCourse:
			err = w.courseRepo.AddViews(ctx, key.subjectID, entry.count, entry.lastAt)
		case model.SubjectTeacher:
			err = w.teacherRepo.AddViews(ctx, key.subjectID, entry.count, entry.lastAt)
		}
		if err != nil {
			w.log.Warn().Err(err).
				Str("subject_id", key.subjectID.Hex()).
				Int64("views", entry.count).
				Msg("View counter update failed")
		}
	}

	w.log.Debug().Int("subjects", len(batch)).Msg("Activity batch flushed")
	clear(batch)
}

// drain empties the queue into the batch before shutdown.
func (w *ActivityWorker) drain(ctx context.Context, batch map[activityKey]*activityBatch) {
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.ActivityEventsQueue).Result()
		if err != nil {
			return
		}
		w.accumulate(batch, []byte(result))
	}
}
