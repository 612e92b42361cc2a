package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

// TeacherHandler handles teacher catalog requests.
type TeacherHandler struct {
	teacherService  *service.TeacherService
	courseService   *service.CourseService
	feedbackService *service.FeedbackService
	log             zerolog.Logger
}

// NewTeacherHandler creates a new teacher handler.
func NewTeacherHandler(
	teacherService *service.TeacherService,
	courseService *service.CourseService,
	feedbackService *service.FeedbackService,
	log zerolog.Logger,
) *TeacherHandler {
	return &TeacherHandler{
		teacherService:  teacherService,
		courseService:   courseService,
		feedbackService: feedbackService,
		log:             logger.Component(log, "teacher_handler"),
	}
}

// ListTeachers godoc
// GET /teachers
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	opts := repository.TeacherListOptions{
		Faculty: c.Query("faculty"),
		Search:  c.Query("q"),
	}
	opts.Page, opts.PerPage = paginationQuery(c)

	teachers, total, err := h.teacherService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	pagination := response.NewPagination(opts.Page, opts.PerPage, int(total))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"teachers": teachers}, pagination)
}

// GetTeacher godoc
// GET /teachers/:id
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	teacher, err := h.teacherService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	summary, err := h.feedbackService.GetRatingSummary(c.Request.Context(), model.SubjectTeacher, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"teacher":        teacher,
		"rating_summary": summary,
	})
}

// ListTeacherCourses godoc
// GET /teachers/:id/courses
func (h *TeacherHandler) ListTeacherCourses(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	// The teacher lookup runs first so an unknown id yields 404 instead
	// of an empty list.
	if _, err := h.teacherService.Get(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	opts := repository.CourseListOptions{TeacherID: &id}
	opts.Page, opts.PerPage = paginationQuery(c)

	courses, total, err := h.courseService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	pagination := response.NewPagination(opts.Page, opts.PerPage, int(total))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, pagination)
}

// CreateTeacher godoc
// POST /admin/teachers
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("teacher_id", teacher.ID.Hex()).Msg("teacher created")
	response.Success(c, http.StatusCreated, gin.H{"teacher": teacher})
}

// UpdateTeacher godoc
// PATCH /admin/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// DeleteTeacher godoc
// DELETE /admin/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.teacherService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("teacher_id", id.Hex()).Msg("teacher deleted")
	response.Success(c, http.StatusOK, gin.H{"message": "Teacher deleted"})
}
