package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/mock/gomock"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/mock"
	"github.com/librekpi/backend/internal/model"
)

type courseServiceMocks struct {
	course  *mock.MockCourseRepository
	major   *mock.MockMajorRepository
	teacher *mock.MockTeacherRepository
	lecture *mock.MockLectureRepository
	rating  *mock.MockRatingRepository
	comment *mock.MockCommentRepository
}

func newTestCourseService(t *testing.T, ctrl *gomock.Controller) (*CourseService, courseServiceMocks, *miniredis.Miniredis) {
	t.Helper()
	mr, rdb := testRedis(t)
	mocks := courseServiceMocks{
		course:  mock.NewMockCourseRepository(ctrl),
		major:   mock.NewMockMajorRepository(ctrl),
		teacher: mock.NewMockTeacherRepository(ctrl),
		lecture: mock.NewMockLectureRepository(ctrl),
		rating:  mock.NewMockRatingRepository(ctrl),
		comment: mock.NewMockCommentRepository(ctrl),
	}

	svc := NewCourseService(
		mocks.course, mocks.major, mocks.teacher,
		mocks.lecture, mocks.rating, mocks.comment,
		rdb, testConfig(), NewActivityRecorder(rdb, zerolog.Nop()), zerolog.Nop(),
	)
	return svc, mocks, mr
}

func TestCourseService_GetDetail_CachesDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, mr := newTestCourseService(t, ctrl)
	ctx := context.Background()

	teacherID := primitive.NewObjectID()
	course := &model.Course{
		ID:        primitive.NewObjectID(),
		MajorID:   primitive.NewObjectID(),
		TeacherID: teacherID,
		Title:     "Operating Systems",
	}
	teacher := &model.Teacher{ID: teacherID, FirstName: "Taras", LastName: "Kovalenko"}

	mocks.course.EXPECT().GetByID(ctx, course.ID).Return(course, nil).Times(1)
	mocks.teacher.EXPECT().GetByID(ctx, teacherID).Return(teacher, nil).Times(1)

	first, err := svc.GetDetail(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", first.Course.Title)
	assert.Equal(t, "Kovalenko Taras", first.Teacher.FullName)
	assert.True(t, mr.Exists(config.CacheKey.CourseDocKey(course.ID.Hex())))

	second, err := svc.GetDetail(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Course.ID, second.Course.ID)

	// Both reads queue a view event for the activity worker.
	queued, err := mr.List(config.WorkerKey.ActivityEventsQueue)
	require.NoError(t, err)
	assert.Len(t, queued, 2)
}

func TestCourseService_GetDetail_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, _ := newTestCourseService(t, ctrl)
	ctx := context.Background()

	id := primitive.NewObjectID()
	mocks.course.EXPECT().GetByID(ctx, id).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.GetDetail(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseService_ListByMajor_WarmsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, mr := newTestCourseService(t, ctrl)
	ctx := context.Background()

	majorID := primitive.NewObjectID()
	courses := []*model.Course{{ID: primitive.NewObjectID(), MajorID: majorID, Title: "Algorithms"}}

	mocks.major.EXPECT().GetByID(ctx, majorID).Return(&model.Major{ID: majorID}, nil).Times(2)
	mocks.course.EXPECT().ListAllByMajor(ctx, majorID).Return(courses, nil).Times(1)

	first, err := svc.ListByMajor(ctx, majorID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(config.CacheKey.MajorCoursesKey(majorID.Hex())))

	second, err := svc.ListByMajor(ctx, majorID)
	require.NoError(t, err)
	assert.Equal(t, first[0].Title, second[0].Title)
}

func TestCourseService_ListByMajor_UnknownMajor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, _ := newTestCourseService(t, ctrl)
	ctx := context.Background()

	majorID := primitive.NewObjectID()
	mocks.major.EXPECT().GetByID(ctx, majorID).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.ListByMajor(ctx, majorID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseService_Create_UnknownTeacher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, _ := newTestCourseService(t, ctrl)
	ctx := context.Background()

	majorID := primitive.NewObjectID()
	teacherID := primitive.NewObjectID()

	mocks.major.EXPECT().GetByID(ctx, majorID).Return(&model.Major{ID: majorID}, nil)
	mocks.teacher.EXPECT().GetByID(ctx, teacherID).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.Create(ctx, &model.CreateCourseRequest{
		MajorID:   majorID.Hex(),
		TeacherID: teacherID.Hex(),
		Title:     "Algorithms",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "teacher")
}

func TestCourseService_Update_MoveInvalidatesBothMajorLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, mr := newTestCourseService(t, ctrl)
	ctx := context.Background()

	oldMajor := primitive.NewObjectID()
	newMajor := primitive.NewObjectID()
	course := &model.Course{
		ID:        primitive.NewObjectID(),
		MajorID:   oldMajor,
		TeacherID: primitive.NewObjectID(),
		Title:     "Databases",
	}

	require.NoError(t, mr.Set(config.CacheKey.MajorCoursesKey(oldMajor.Hex()), "[]"))
	require.NoError(t, mr.Set(config.CacheKey.MajorCoursesKey(newMajor.Hex()), "[]"))
	require.NoError(t, mr.Set(config.CacheKey.CourseDocKey(course.ID.Hex()), "{}"))

	mocks.course.EXPECT().GetByID(ctx, course.ID).Return(course, nil)
	mocks.major.EXPECT().GetByID(ctx, newMajor).Return(&model.Major{ID: newMajor}, nil)
	mocks.course.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, c *model.Course) error {
			assert.Equal(t, newMajor, c.MajorID)
			return nil
		},
	)

	newMajorHex := newMajor.Hex()
	_, err := svc.Update(ctx, course.ID, &model.UpdateCourseRequest{MajorID: &newMajorHex})
	require.NoError(t, err)

	assert.False(t, mr.Exists(config.CacheKey.MajorCoursesKey(oldMajor.Hex())))
	assert.False(t, mr.Exists(config.CacheKey.MajorCoursesKey(newMajor.Hex())))
	assert.False(t, mr.Exists(config.CacheKey.CourseDocKey(course.ID.Hex())))
}

func TestCourseService_Delete_CascadesDependents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, mr := newTestCourseService(t, ctrl)
	ctx := context.Background()

	course := &model.Course{
		ID:      primitive.NewObjectID(),
		MajorID: primitive.NewObjectID(),
	}
	require.NoError(t, mr.Set(config.CacheKey.CourseDocKey(course.ID.Hex()), "{}"))
	require.NoError(t, mr.Set(config.CacheKey.RatingSummaryKey("course", course.ID.Hex()), "{}"))

	gomock.InOrder(
		mocks.course.EXPECT().GetByID(ctx, course.ID).Return(course, nil),
		mocks.lecture.EXPECT().DeleteByCourse(ctx, course.ID).Return(int64(5), nil),
		mocks.rating.EXPECT().DeleteBySubject(ctx, model.SubjectCourse, course.ID).Return(int64(12), nil),
		mocks.comment.EXPECT().DeleteByCourse(ctx, course.ID).Return(int64(7), nil),
		mocks.course.EXPECT().Delete(ctx, course.ID).Return(nil),
	)

	require.NoError(t, svc.Delete(ctx, course.ID))
	assert.False(t, mr.Exists(config.CacheKey.CourseDocKey(course.ID.Hex())))
	assert.False(t, mr.Exists(config.CacheKey.RatingSummaryKey("course", course.ID.Hex())))
}

func TestCourseService_PrewarmCourseLists_SkipsFailedMajor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mocks, mr := newTestCourseService(t, ctrl)
	ctx := context.Background()

	healthy := &model.Major{ID: primitive.NewObjectID(), Code: "121"}
	broken := &model.Major{ID: primitive.NewObjectID(), Code: "123"}

	mocks.major.EXPECT().GetAll(ctx).Return([]*model.Major{healthy, broken}, nil)
	mocks.course.EXPECT().ListAllByMajor(ctx, healthy.ID).Return([]*model.Course{}, nil)
	mocks.course.EXPECT().ListAllByMajor(ctx, broken.ID).Return(nil, errors.New("cursor timeout"))

	// One failing major must not abort the warmup of the rest.
	require.NoError(t, svc.PrewarmCourseLists(ctx))
	assert.True(t, mr.Exists(config.CacheKey.MajorCoursesKey(healthy.ID.Hex())))
	assert.False(t, mr.Exists(config.CacheKey.MajorCoursesKey(broken.ID.Hex())))
}
