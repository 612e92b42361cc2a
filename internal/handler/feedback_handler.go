package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/middleware"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

// FeedbackHandler handles ratings and comment threads for courses and
// teachers.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	userService     *service.UserService
	log             zerolog.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService, userService *service.UserService, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		userService:     userService,
		log:             logger.Component(log, "feedback_handler"),
	}
}

// ─────────────────────────────────────────────────────────────────────
// Ratings
// ─────────────────────────────────────────────────────────────────────

// RateCourse godoc
// PUT /courses/:id/rating
func (h *FeedbackHandler) RateCourse(c *gin.Context) {
	h.submitRating(c, model.SubjectCourse)
}

// RateTeacher godoc
// PUT /teachers/:id/rating
func (h *FeedbackHandler) RateTeacher(c *gin.Context) {
	h.submitRating(c, model.SubjectTeacher)
}

// GetCourseRatings godoc
// GET /courses/:id/ratings
func (h *FeedbackHandler) GetCourseRatings(c *gin.Context) {
	h.ratingSummary(c, model.SubjectCourse)
}

// GetTeacherRatings godoc
// GET /teachers/:id/ratings
func (h *FeedbackHandler) GetTeacherRatings(c *gin.Context) {
	h.ratingSummary(c, model.SubjectTeacher)
}

// GetMyCourseRating godoc
// GET /courses/:id/rating
func (h *FeedbackHandler) GetMyCourseRating(c *gin.Context) {
	h.ownRating(c, model.SubjectCourse)
}

// GetMyTeacherRating godoc
// GET /teachers/:id/rating
func (h *FeedbackHandler) GetMyTeacherRating(c *gin.Context) {
	h.ownRating(c, model.SubjectTeacher)
}

// submitRating queues a grade for asynchronous persistence. The 202
// tells the client the grade was accepted, not that it is stored yet.
func (h *FeedbackHandler) submitRating(c *gin.Context, subjectType model.SubjectType) {
	subjectID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, _, ok := actor(c)
	if !ok {
		return
	}

	var req model.RateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.feedbackService.SubmitRating(c.Request.Context(), subjectType, subjectID, userID, req.Grade); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Accepted(c, gin.H{"message": "Rating accepted for processing"})
}

func (h *FeedbackHandler) ratingSummary(c *gin.Context, subjectType model.SubjectType) {
	subjectID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	summary, err := h.feedbackService.GetRatingSummary(c.Request.Context(), subjectType, subjectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rating_summary": summary})
}

func (h *FeedbackHandler) ownRating(c *gin.Context, subjectType model.SubjectType) {
	subjectID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, _, ok := actor(c)
	if !ok {
		return
	}

	rating, err := h.feedbackService.GetUserRating(c.Request.Context(), subjectType, subjectID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rating": rating})
}

// ─────────────────────────────────────────────────────────────────────
// Comments
// ─────────────────────────────────────────────────────────────────────

// ListComments godoc
// GET /courses/:id/comments
//
// The route is public. Hidden comments are only included when the
// caller sends include_hidden=true with a moderator token.
func (h *FeedbackHandler) ListComments(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	opts := repository.CommentListOptions{}
	opts.Page, opts.PerPage = paginationQuery(c)

	if c.Query("include_hidden") == "true" {
		claims := middleware.GetClaims(c)
		opts.IncludeHidden = claims != nil &&
			model.HasPermission(claims.Permissions, model.PermFeedbackModerate)
	}

	threads, total, err := h.feedbackService.ListComments(c.Request.Context(), courseID, opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	pagination := response.NewPagination(opts.Page, opts.PerPage, int(total))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"comments": threads}, pagination)
}

// CreateComment godoc
// POST /courses/:id/comments
func (h *FeedbackHandler) CreateComment(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, _, ok := actor(c)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// The author's display name is denormalized into the comment, so the
	// full user record is loaded rather than trusting token claims.
	author, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comment, err := h.feedbackService.CreateComment(c.Request.Context(), courseID, author, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment godoc
// DELETE /comments/:id
//
// Authors may delete their own comments; moderators may delete any.
func (h *FeedbackHandler) DeleteComment(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, claims, ok := actor(c)
	if !ok {
		return
	}

	canModerate := model.HasPermission(claims.Permissions, model.PermFeedbackModerate)
	if err := h.feedbackService.DeleteComment(c.Request.Context(), id, userID, canModerate); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Comment deleted"})
}

// HideComment godoc
// POST /moderation/comments/:id/hide
func (h *FeedbackHandler) HideComment(c *gin.Context) {
	h.setCommentHidden(c, true)
}

// UnhideComment godoc
// POST /moderation/comments/:id/unhide
func (h *FeedbackHandler) UnhideComment(c *gin.Context) {
	h.setCommentHidden(c, false)
}

func (h *FeedbackHandler) setCommentHidden(c *gin.Context, hidden bool) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.SetCommentHidden(c.Request.Context(), id, hidden); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("comment_id", id.Hex()).Bool("hidden", hidden).Msg("comment visibility changed")
	response.Success(c, http.StatusOK, gin.H{"message": "Comment visibility updated"})
}
