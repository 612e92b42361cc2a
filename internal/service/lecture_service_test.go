package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/mock/gomock"

	"github.com/librekpi/backend/internal/mock"
	"github.com/librekpi/backend/internal/model"
)

func newTestLectureService(t *testing.T, ctrl *gomock.Controller) (*LectureService, *mock.MockLectureRepository, *mock.MockCourseRepository) {
	t.Helper()
	lectureRepo := mock.NewMockLectureRepository(ctrl)
	courseRepo := mock.NewMockCourseRepository(ctrl)
	return NewLectureService(lectureRepo, courseRepo, zerolog.Nop()), lectureRepo, courseRepo
}

func TestLectureService_Create_UnknownCourse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, courseRepo := newTestLectureService(t, ctrl)
	ctx := context.Background()

	courseID := primitive.NewObjectID()
	courseRepo.EXPECT().GetByID(ctx, courseID).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.Create(ctx, courseID, &model.CreateLectureRequest{Number: 1, Title: "Intro"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLectureService_Create_DuplicateNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, lectureRepo, courseRepo := newTestLectureService(t, ctrl)
	ctx := context.Background()

	courseID := primitive.NewObjectID()
	courseRepo.EXPECT().GetByID(ctx, courseID).Return(&model.Course{ID: courseID}, nil)
	lectureRepo.EXPECT().Create(ctx, gomock.Any()).Return(duplicateKeyError())

	_, err := svc.Create(ctx, courseID, &model.CreateLectureRequest{Number: 1, Title: "Intro"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLectureService_Update_InvertedTimeWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, lectureRepo, _ := newTestLectureService(t, ctrl)
	ctx := context.Background()

	id := primitive.NewObjectID()
	starts := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	lectureRepo.EXPECT().GetByID(ctx, id).Return(&model.Lecture{
		ID:       id,
		Number:   1,
		StartsAt: &starts,
	}, nil)

	endsBefore := starts.Add(-time.Hour)
	_, err := svc.Update(ctx, id, &model.UpdateLectureRequest{EndsAt: &endsBefore})
	assert.ErrorIs(t, err, ErrActionForbidden)
}

func TestLectureService_Update_Renumbers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, lectureRepo, _ := newTestLectureService(t, ctrl)
	ctx := context.Background()

	id := primitive.NewObjectID()
	lectureRepo.EXPECT().GetByID(ctx, id).Return(&model.Lecture{ID: id, Number: 3}, nil)
	lectureRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, l *model.Lecture) error {
			assert.Equal(t, 7, l.Number)
			return nil
		},
	)

	number := 7
	lecture, err := svc.Update(ctx, id, &model.UpdateLectureRequest{Number: &number})
	require.NoError(t, err)
	assert.Equal(t, 7, lecture.Number)
}

