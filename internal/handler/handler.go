package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/librekpi/backend/internal/middleware"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/social"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// serviceErrorStatus maps a service sentinel to an HTTP status and API
// error code. Unknown errors fall through to 500 so they are never
// leaked to clients with their raw message.
func serviceErrorStatus(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, response.ErrConflict
	case errors.Is(err, service.ErrDependencyExists):
		return http.StatusConflict, response.ErrDependencyExists
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrInvalidCredentials
	case errors.Is(err, service.ErrNoActiveSession), errors.Is(err, service.ErrSessionInvalidated):
		return http.StatusUnauthorized, response.ErrSessionInvalidated
	case errors.Is(err, service.ErrActionForbidden):
		return http.StatusForbidden, response.ErrActionForbidden
	case errors.Is(err, service.ErrInvalidGrade):
		return http.StatusBadRequest, response.ErrInvalidGrade
	case errors.Is(err, service.ErrReplyDepth):
		return http.StatusBadRequest, response.ErrReplyDepth
	case errors.Is(err, service.ErrParentHidden):
		return http.StatusConflict, response.ErrParentHidden
	case errors.Is(err, service.ErrQueueUnavailable):
		return http.StatusServiceUnavailable, response.ErrQueueOverload
	case errors.Is(err, social.ErrUnknownProvider):
		return http.StatusBadRequest, response.ErrUnknownProvider
	case errors.Is(err, social.ErrTokenRejected):
		return http.StatusUnauthorized, response.ErrSocialTokenInvalid
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// respondError translates a service error into the API envelope. Only
// unexpected errors are logged; expected outcomes like "not found" would
// drown the log otherwise.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status, code := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	response.Fail(c, status, code)
}

// pathObjectID parses the named path parameter as a Mongo ObjectID.
// On failure it writes a 400 response and returns ok=false.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// paginationQuery reads page/per_page query params with sane defaults.
func paginationQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// actor returns the authenticated caller's ObjectID and claims. A
// missing or malformed identity means the auth middleware was bypassed
// or the token predates the current schema; either way the request is
// rejected with 401.
func actor(c *gin.Context) (primitive.ObjectID, *service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return primitive.NilObjectID, nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return primitive.NilObjectID, nil, false
	}
	return id, claims, true
}
