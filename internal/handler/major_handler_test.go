package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/mock/gomock"

	"github.com/alicebob/miniredis/v2"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/mock"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
)

type majorHandlerFixture struct {
	handler    *MajorHandler
	majorRepo  *mock.MockMajorRepository
	courseRepo *mock.MockCourseRepository
	mr         *miniredis.Miniredis
}

func newMajorHandlerFixture(t *testing.T, ctrl *gomock.Controller) *majorHandlerFixture {
	t.Helper()

	mr, rdb := testRedis(t)
	majorRepo := mock.NewMockMajorRepository(ctrl)
	courseRepo := mock.NewMockCourseRepository(ctrl)

	cfg := testConfig()
	activity := service.NewActivityRecorder(rdb, zerolog.Nop())
	majors := service.NewMajorService(majorRepo, courseRepo, rdb, cfg, zerolog.Nop())
	courses := service.NewCourseService(
		courseRepo,
		majorRepo,
		mock.NewMockTeacherRepository(ctrl),
		mock.NewMockLectureRepository(ctrl),
		mock.NewMockRatingRepository(ctrl),
		mock.NewMockCommentRepository(ctrl),
		rdb,
		cfg,
		activity,
		zerolog.Nop(),
	)

	return &majorHandlerFixture{
		handler:    NewMajorHandler(majors, courses, zerolog.Nop()),
		majorRepo:  majorRepo,
		courseRepo: courseRepo,
		mr:         mr,
	}
}

func TestMajorHandler_GetAllMajors_ServesSecondReadFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	majors := []*model.Major{
		{ID: primitive.NewObjectID(), Code: "121", Name: "Software Engineering", Faculty: "FICS"},
		{ID: primitive.NewObjectID(), Code: "113", Name: "Applied Mathematics", Faculty: "FICS"},
	}
	// Exactly one database read; the second request must hit Redis.
	fx.majorRepo.EXPECT().GetAll(gomock.Any()).Return(majors, nil).Times(1)

	r := gin.New()
	r.GET("/majors", fx.handler.GetAllMajors)

	for i := 0; i < 2; i++ {
		w := perform(t, r, http.MethodGet, "/majors", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got []*model.Major
		dataField(t, w, "majors", &got)
		require.Len(t, got, 2)
		assert.Equal(t, "121", got[0].Code)
	}

	assert.True(t, fx.mr.Exists(config.CacheKey.MajorsListKey()))
}

func TestMajorHandler_GetMajor_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	r := gin.New()
	r.GET("/majors/:id", fx.handler.GetMajor)

	w := perform(t, r, http.MethodGet, "/majors/not-a-hex", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, errCodeOf(t, w))
}

func TestMajorHandler_GetMajor_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	id := primitive.NewObjectID()
	fx.majorRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, mongo.ErrNoDocuments)

	r := gin.New()
	r.GET("/majors/:id", fx.handler.GetMajor)

	w := perform(t, r, http.MethodGet, "/majors/"+id.Hex(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCodeOf(t, w))
}

func TestMajorHandler_CreateMajor_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	// A stale listing must not survive the write.
	require.NoError(t, fx.mr.Set(config.CacheKey.MajorsListKey(), "[]"))

	fx.majorRepo.EXPECT().GetByCode(gomock.Any(), "121").Return(nil, mongo.ErrNoDocuments)
	fx.majorRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, major *model.Major) error {
			major.ID = primitive.NewObjectID()
			return nil
		})

	r := gin.New()
	r.POST("/admin/majors", fx.handler.CreateMajor)

	w := perform(t, r, http.MethodPost, "/admin/majors", model.CreateMajorRequest{
		Code:    "121",
		Name:    "Software Engineering",
		Faculty: "FICS",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var major model.Major
	dataField(t, w, "major", &major)
	assert.Equal(t, "121", major.Code)
	assert.False(t, major.ID.IsZero())

	assert.False(t, fx.mr.Exists(config.CacheKey.MajorsListKey()))
}

func TestMajorHandler_CreateMajor_ValidationFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	r := gin.New()
	r.POST("/admin/majors", fx.handler.CreateMajor)

	w := perform(t, r, http.MethodPost, "/admin/majors", gin.H{"name": "Software Engineering"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "code")
	assert.Contains(t, env.Error.Fields, "faculty")
}

func TestMajorHandler_CreateMajor_DuplicateCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	existing := &model.Major{ID: primitive.NewObjectID(), Code: "121"}
	fx.majorRepo.EXPECT().GetByCode(gomock.Any(), "121").Return(existing, nil)

	r := gin.New()
	r.POST("/admin/majors", fx.handler.CreateMajor)

	w := perform(t, r, http.MethodPost, "/admin/majors", model.CreateMajorRequest{
		Code:    "121",
		Name:    "Software Engineering",
		Faculty: "FICS",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrConflict, errCodeOf(t, w))
}

func TestMajorHandler_DeleteMajor_RefusedWhileCoursesExist(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	id := primitive.NewObjectID()
	fx.majorRepo.EXPECT().GetByID(gomock.Any(), id).Return(&model.Major{ID: id, Code: "121"}, nil)
	fx.courseRepo.EXPECT().CountByMajor(gomock.Any(), id).Return(int64(3), nil)

	r := gin.New()
	r.DELETE("/admin/majors/:id", fx.handler.DeleteMajor)

	w := perform(t, r, http.MethodDelete, "/admin/majors/"+id.Hex(), nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrDependencyExists, errCodeOf(t, w))
}

func TestMajorHandler_ListCourses_UnknownMajor(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	id := primitive.NewObjectID()
	fx.majorRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, mongo.ErrNoDocuments)

	r := gin.New()
	r.GET("/majors/:id/courses", fx.handler.ListCourses)

	w := perform(t, r, http.MethodGet, "/majors/"+id.Hex()+"/courses", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCodeOf(t, w))
}

func TestMajorHandler_ListCourses_ServesSecondReadFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newMajorHandlerFixture(t, ctrl)

	majorID := primitive.NewObjectID()
	courses := []*model.Course{
		{ID: primitive.NewObjectID(), MajorID: majorID, Title: "Operating Systems"},
	}

	// The existence check runs on every request, the course query once.
	fx.majorRepo.EXPECT().GetByID(gomock.Any(), majorID).Return(&model.Major{ID: majorID}, nil).Times(2)
	fx.courseRepo.EXPECT().ListAllByMajor(gomock.Any(), majorID).Return(courses, nil).Times(1)

	r := gin.New()
	r.GET("/majors/:id/courses", fx.handler.ListCourses)

	for i := 0; i < 2; i++ {
		w := perform(t, r, http.MethodGet, "/majors/"+majorID.Hex()+"/courses", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got []*model.Course
		dataField(t, w, "courses", &got)
		require.Len(t, got, 1)
		assert.Equal(t, "Operating Systems", got[0].Title)
	}
}
