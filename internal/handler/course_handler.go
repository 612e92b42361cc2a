package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

// CourseHandler handles course catalog requests.
type CourseHandler struct {
	courseService   *service.CourseService
	feedbackService *service.FeedbackService
	log             zerolog.Logger
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService *service.CourseService, feedbackService *service.FeedbackService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:   courseService,
		feedbackService: feedbackService,
		log:             logger.Component(log, "course_handler"),
	}
}

// ListCourses godoc
// GET /courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	opts, ok := courseListOptions(c)
	if !ok {
		return
	}

	courses, total, err := h.courseService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	pagination := response.NewPagination(opts.Page, opts.PerPage, int(total))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, pagination)
}

// GetCourse godoc
// GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	detail, err := h.courseService.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	summary, err := h.feedbackService.GetRatingSummary(c.Request.Context(), model.SubjectCourse, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"course":         detail.Course,
		"teacher":        detail.Teacher,
		"rating_summary": summary,
	})
}

// CreateCourse godoc
// POST /admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("course_id", course.ID.Hex()).Str("title", course.Title).Msg("course created")
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PATCH /admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("course_id", id.Hex()).Msg("course deleted")
	response.Success(c, http.StatusOK, gin.H{"message": "Course deleted"})
}

// courseListOptions parses the catalog filter query params. Malformed
// ObjectID filters are rejected rather than silently ignored, so a
// client typo does not look like an empty catalog.
func courseListOptions(c *gin.Context) (repository.CourseListOptions, bool) {
	opts := repository.CourseListOptions{
		Tag:    c.Query("tag"),
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
	}
	opts.Page, opts.PerPage = paginationQuery(c)

	if raw := c.Query("major_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return opts, false
		}
		opts.MajorID = &id
	}
	if raw := c.Query("teacher_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return opts, false
		}
		opts.TeacherID = &id
	}
	return opts, true
}
