package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

// LectureHandler handles lecture catalog requests.
type LectureHandler struct {
	lectureService *service.LectureService
	log            zerolog.Logger
}

// NewLectureHandler creates a new lecture handler.
func NewLectureHandler(lectureService *service.LectureService, log zerolog.Logger) *LectureHandler {
	return &LectureHandler{
		lectureService: lectureService,
		log:            logger.Component(log, "lecture_handler"),
	}
}

// ListByCourse godoc
// GET /courses/:id/lectures
func (h *LectureHandler) ListByCourse(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	lectures, err := h.lectureService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lectures": lectures})
}

// GetLecture godoc
// GET /lectures/:id
func (h *LectureHandler) GetLecture(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	lecture, err := h.lectureService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecture": lecture})
}

// CreateLecture godoc
// POST /admin/courses/:id/lectures
func (h *LectureHandler) CreateLecture(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.CreateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.Create(c.Request.Context(), courseID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("course_id", courseID.Hex()).
		Int("number", lecture.Number).
		Msg("lecture created")
	response.Success(c, http.StatusCreated, gin.H{"lecture": lecture})
}

// UpdateLecture godoc
// PATCH /admin/lectures/:id
func (h *LectureHandler) UpdateLecture(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecture": lecture})
}

// DeleteLecture godoc
// DELETE /admin/lectures/:id
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.lectureService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Lecture deleted"})
}
