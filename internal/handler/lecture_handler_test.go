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

	"github.com/librekpi/backend/internal/mock"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
)

type lectureHandlerFixture struct {
	handler     *LectureHandler
	lectureRepo *mock.MockLectureRepository
	courseRepo  *mock.MockCourseRepository
}

func newLectureHandlerFixture(t *testing.T, ctrl *gomock.Controller) *lectureHandlerFixture {
	t.Helper()

	lectureRepo := mock.NewMockLectureRepository(ctrl)
	courseRepo := mock.NewMockCourseRepository(ctrl)
	lectures := service.NewLectureService(lectureRepo, courseRepo, zerolog.Nop())

	return &lectureHandlerFixture{
		handler:     NewLectureHandler(lectures, zerolog.Nop()),
		lectureRepo: lectureRepo,
		courseRepo:  courseRepo,
	}
}

func TestLectureHandler_ListByCourse_UnknownCourse(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	courseID := primitive.NewObjectID()
	fx.courseRepo.EXPECT().GetByID(gomock.Any(), courseID).Return(nil, mongo.ErrNoDocuments)

	r := gin.New()
	r.GET("/courses/:id/lectures", fx.handler.ListByCourse)

	w := perform(t, r, http.MethodGet, "/courses/"+courseID.Hex()+"/lectures", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCodeOf(t, w))
}

func TestLectureHandler_ListByCourse_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	courseID := primitive.NewObjectID()
	fx.courseRepo.EXPECT().GetByID(gomock.Any(), courseID).Return(&model.Course{ID: courseID}, nil)
	fx.lectureRepo.EXPECT().ListByCourse(gomock.Any(), courseID).Return([]*model.Lecture{
		{ID: primitive.NewObjectID(), CourseID: courseID, Number: 1, Title: "Introduction"},
		{ID: primitive.NewObjectID(), CourseID: courseID, Number: 2, Title: "Processes"},
	}, nil)

	r := gin.New()
	r.GET("/courses/:id/lectures", fx.handler.ListByCourse)

	w := perform(t, r, http.MethodGet, "/courses/"+courseID.Hex()+"/lectures", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var lectures []*model.Lecture
	dataField(t, w, "lectures", &lectures)
	require.Len(t, lectures, 2)
	assert.Equal(t, 1, lectures[0].Number)
	assert.Equal(t, "Processes", lectures[1].Title)
}

func TestLectureHandler_GetLecture_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	lecture := &model.Lecture{
		ID:       primitive.NewObjectID(),
		CourseID: primitive.NewObjectID(),
		Number:   3,
		Title:    "Scheduling",
		Room:     "7-505",
	}
	fx.lectureRepo.EXPECT().GetByID(gomock.Any(), lecture.ID).Return(lecture, nil)

	r := gin.New()
	r.GET("/lectures/:id", fx.handler.GetLecture)

	w := perform(t, r, http.MethodGet, "/lectures/"+lecture.ID.Hex(), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Lecture
	dataField(t, w, "lecture", &got)
	assert.Equal(t, 3, got.Number)
	assert.Equal(t, "7-505", got.Room)
}

func TestLectureHandler_CreateLecture_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	courseID := primitive.NewObjectID()
	fx.courseRepo.EXPECT().GetByID(gomock.Any(), courseID).Return(&model.Course{ID: courseID}, nil)
	fx.lectureRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, lecture *model.Lecture) error {
			lecture.ID = primitive.NewObjectID()
			return nil
		})

	r := gin.New()
	r.POST("/admin/courses/:id/lectures", fx.handler.CreateLecture)

	w := perform(t, r, http.MethodPost, "/admin/courses/"+courseID.Hex()+"/lectures", model.CreateLectureRequest{
		Number: 1,
		Title:  "Introduction and Processes",
		Room:   "7-505",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var lecture model.Lecture
	dataField(t, w, "lecture", &lecture)
	assert.Equal(t, courseID, lecture.CourseID)
	assert.Equal(t, 1, lecture.Number)
}

func TestLectureHandler_CreateLecture_NumberTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	courseID := primitive.NewObjectID()
	fx.courseRepo.EXPECT().GetByID(gomock.Any(), courseID).Return(&model.Course{ID: courseID}, nil)
	fx.lectureRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(duplicateKeyError())

	r := gin.New()
	r.POST("/admin/courses/:id/lectures", fx.handler.CreateLecture)

	w := perform(t, r, http.MethodPost, "/admin/courses/"+courseID.Hex()+"/lectures", model.CreateLectureRequest{
		Number: 1,
		Title:  "Introduction and Processes",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrConflict, errCodeOf(t, w))
}

func TestLectureHandler_DeleteLecture_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	fx := newLectureHandlerFixture(t, ctrl)

	id := primitive.NewObjectID()
	fx.lectureRepo.EXPECT().Delete(gomock.Any(), id).Return(mongo.ErrNoDocuments)

	r := gin.New()
	r.DELETE("/admin/lectures/:id", fx.handler.DeleteLecture)

	w := perform(t, r, http.MethodDelete, "/admin/lectures/"+id.Hex(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCodeOf(t, w))
}
