package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
)

// ActivityRecorder queues detail-page visits for the activity worker.
// A failed push only logs a warning: view counters are a convenience
// metric and must never fail a read request.
type ActivityRecorder struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewActivityRecorder(rdb *redis.Client, log zerolog.Logger) *ActivityRecorder {
	return &ActivityRecorder{rdb: rdb, log: logger.Component(log, "activity")}
}

func (a *ActivityRecorder) RecordView(ctx context.Context, subjectType model.SubjectType, subjectID string) {
	event := model.ActivityEvent{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		At:          time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := a.rdb.LPush(ctx, config.WorkerKey.ActivityEventsQueue, payload).Err(); err != nil {
		a.log.Warn().Err(err).Str("subject_id", subjectID).Msg("Failed to queue activity event")
	}
}
