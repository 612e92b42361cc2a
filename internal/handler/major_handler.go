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

// MajorHandler handles major-related requests.
type MajorHandler struct {
	majorService  service.MajorService
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewMajorHandler creates a new major handler.
func NewMajorHandler(majorService service.MajorService, courseService *service.CourseService, log zerolog.Logger) *MajorHandler {
	return &MajorHandler{
		majorService:  majorService,
		courseService: courseService,
		log:           logger.Component(log, "major_handler"),
	}
}

// GetAllMajors godoc
// GET /majors
func (h *MajorHandler) GetAllMajors(c *gin.Context) {
	majors, err := h.majorService.GetAllMajors(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"majors": majors})
}

// GetMajor godoc
// GET /majors/:id
func (h *MajorHandler) GetMajor(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	major, err := h.majorService.GetMajor(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"major": major})
}

// ListCourses godoc
// GET /majors/:id/courses
func (h *MajorHandler) ListCourses(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	courses, err := h.courseService.ListByMajor(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateMajor godoc
// POST /admin/majors
func (h *MajorHandler) CreateMajor(c *gin.Context) {
	var req model.CreateMajorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	major, err := h.majorService.CreateMajor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("code", major.Code).Msg("major created")
	response.Success(c, http.StatusCreated, gin.H{"major": major})
}

// UpdateMajor godoc
// PATCH /admin/majors/:id
func (h *MajorHandler) UpdateMajor(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateMajorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	major, err := h.majorService.UpdateMajor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"major": major})
}

// DeleteMajor godoc
// DELETE /admin/majors/:id
func (h *MajorHandler) DeleteMajor(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.majorService.DeleteMajor(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("major_id", id.Hex()).Msg("major deleted")
	response.Success(c, http.StatusOK, gin.H{"message": "Major deleted"})
}
