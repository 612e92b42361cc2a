package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/mock"
	"github.com/librekpi/backend/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func testConfig() *config.Config {
	return &config.Config{
		CatalogCacheTTL: config.Duration(time.Minute),
	}
}

func queueSubmission(t *testing.T, mr *miniredis.Miniredis, submission model.RatingSubmission) {
	t.Helper()
	payload, err := json.Marshal(submission)
	require.NoError(t, err)
	_, err = mr.Lpush(config.WorkerKey.PersistRatingsQueue, string(payload))
	require.NoError(t, err)
}

func queueActivity(t *testing.T, mr *miniredis.Miniredis, event model.ActivityEvent) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	_, err = mr.Lpush(config.WorkerKey.ActivityEventsQueue, string(payload))
	require.NoError(t, err)
}

// canceledContext returns a context that is already done, which makes
// Start take the drain path immediately and return synchronously.
func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// ─────────────────────────────────────────────────────────────────────
// RatingWorker
// ─────────────────────────────────────────────────────────────────────

func TestRatingWorker_AppliesQueuedSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr, rdb := testRedis(t)
	ratingRepo := mock.NewMockRatingRepository(ctrl)
	w := NewRatingWorker(ratingRepo, rdb, testConfig(), zerolog.Nop())

	subjectID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	ratingRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rating *model.Rating) error {
			assert.Equal(t, model.SubjectCourse, rating.SubjectType)
			assert.Equal(t, subjectID, rating.SubjectID)
			assert.Equal(t, userID, rating.UserID)
			assert.Equal(t, model.GradeA, rating.Grade)
			return nil
		})
	ratingRepo.EXPECT().
		Summarize(gomock.Any(), model.SubjectCourse, subjectID).
		Return(map[model.Grade]int64{model.GradeA: 1}, nil)

	sub := rdb.Subscribe(context.Background(), config.CacheKey.FeedbackChannel())
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	queueSubmission(t, mr, model.RatingSubmission{
		SubjectType: model.SubjectCourse,
		SubjectID:   subjectID.Hex(),
		UserID:      userID.Hex(),
		Grade:       model.GradeA,
		SubmittedAt: time.Now().UTC(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()

	// The worker refreshes the cached summary after the upsert.
	summaryKey := config.CacheKey.RatingSummaryKey(string(model.SubjectCourse), subjectID.Hex())
	require.Eventually(t, func() bool {
		return mr.Exists(summaryKey)
	}, 2*time.Second, 10*time.Millisecond)

	cached, err := mr.Get(summaryKey)
	require.NoError(t, err)
	summary := &model.RatingSummary{}
	require.NoError(t, json.Unmarshal([]byte(cached), summary))
	assert.Equal(t, int64(1), summary.Total)
	assert.InDelta(t, 5.0, summary.Average, 0.001)

	select {
	case msg := <-sub.Channel():
		var event model.FeedbackEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, model.FeedbackRatingSaved, event.Type)
		assert.Equal(t, subjectID.Hex(), event.SubjectID)
		assert.Equal(t, model.GradeA, event.Grade)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rating.saved event on the feedback channel")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestRatingWorker_DropsMalformedSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr, rdb := testRedis(t)
	ratingRepo := mock.NewMockRatingRepository(ctrl)
	w := NewRatingWorker(ratingRepo, rdb, testConfig(), zerolog.Nop())

	_, err := mr.Lpush(config.WorkerKey.PersistRatingsQueue, "{not json")
	require.NoError(t, err)
	queueSubmission(t, mr, model.RatingSubmission{
		SubjectType: model.SubjectTeacher,
		SubjectID:   primitive.NewObjectID().Hex(),
		UserID:      "not-an-object-id",
		Grade:       model.GradeB,
	})

	// Neither payload is usable, so the repository is never touched and
	// nothing is pushed back for retry.
	w.Start(canceledContext())

	assert.False(t, mr.Exists(config.WorkerKey.PersistRatingsQueue))
}

func TestRatingWorker_DrainsQueueOnShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr, rdb := testRedis(t)
	ratingRepo := mock.NewMockRatingRepository(ctrl)
	w := NewRatingWorker(ratingRepo, rdb, testConfig(), zerolog.Nop())

	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	for _, subjectID := range []primitive.ObjectID{first, second} {
		queueSubmission(t, mr, model.RatingSubmission{
			SubjectType: model.SubjectCourse,
			SubjectID:   subjectID.Hex(),
			UserID:      userID.Hex(),
			Grade:       model.GradeC,
		})
	}

	ratingRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	ratingRepo.EXPECT().
		Summarize(gomock.Any(), model.SubjectCourse, gomock.Any()).
		Return(map[model.Grade]int64{model.GradeC: 1}, nil).
		Times(2)

	// With the context already canceled, Start goes straight to the
	// drain and returns once the queue is empty.
	w.Start(canceledContext())

	assert.False(t, mr.Exists(config.WorkerKey.PersistRatingsQueue))
}

// ─────────────────────────────────────────────────────────────────────
// ActivityWorker
// ─────────────────────────────────────────────────────────────────────

func TestActivityWorker_BatchesViewsPerSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr, rdb := testRedis(t)
	courseRepo := mock.NewMockCourseRepository(ctrl)
	teacherRepo := mock.NewMockTeacherRepository(ctrl)
	w := NewActivityWorker(courseRepo, teacherRepo, rdb, zerolog.Nop())

	courseID := primitive.NewObjectID()
	teacherID := primitive.NewObjectID()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		queueActivity(t, mr, model.ActivityEvent{
			SubjectType: model.SubjectCourse,
			SubjectID:   courseID.Hex(),
			At:          base.Add(time.Duration(i) * time.Minute),
		})
	}
	queueActivity(t, mr, model.ActivityEvent{
		SubjectType: model.SubjectTeacher,
		SubjectID:   teacherID.Hex(),
		At:          base,
	})

	// Three course visits fold into a single +3 update carrying the
	// latest visit time.
	courseRepo.EXPECT().
		AddViews(gomock.Any(), courseID, int64(3), base.Add(2*time.Minute)).
		Return(nil)
	teacherRepo.EXPECT().
		AddViews(gomock.Any(), teacherID, int64(1), base).
		Return(nil)

	w.Start(canceledContext())

	assert.False(t, mr.Exists(config.WorkerKey.ActivityEventsQueue))
}

func TestActivityWorker_DropsMalformedEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr, rdb := testRedis(t)
	courseRepo := mock.NewMockCourseRepository(ctrl)
	teacherRepo := mock.NewMockTeacherRepository(ctrl)
	w := NewActivityWorker(courseRepo, teacherRepo, rdb, zerolog.Nop())

	courseID := primitive.NewObjectID()
	_, err := mr.Lpush(config.WorkerKey.ActivityEventsQueue, "{broken")
	require.NoError(t, err)
	_, err = mr.Lpush(config.WorkerKey.ActivityEventsQueue, `{"subject_type":"course","subject_id":"nope","at":"2026-02-10T12:00:00Z"}`)
	require.NoError(t, err)
	queueActivity(t, mr, model.ActivityEvent{
		SubjectType: model.SubjectCourse,
		SubjectID:   courseID.Hex(),
		At:          time.Now().UTC(),
	})

	courseRepo.EXPECT().
		AddViews(gomock.Any(), courseID, int64(1), gomock.Any()).
		Return(nil)

	w.Start(canceledContext())
}
