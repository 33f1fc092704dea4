package middleware

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/logger"
)

// --- Central Error Handling ---

// HandleAPIError maps err onto a status code and the {detail, code}
// envelope and aborts the request.
func HandleAPIError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error) (int, *dto.ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeDuplicateEmail, "Email already registered")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrInvalidEmail):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, detailOf(err))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Not authenticated")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, "Admin access required")

	case apperrors.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, detailOf(err))

	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeInvalidState, detailOf(err))
	case apperrors.Is(err, apperrors.ErrMembershipIDConflict, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, detailOf(err))

	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, dto.NewErrorResponse(dto.ErrorCodeRateLimited, "Too many requests")

	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// detailOf turns an error message into a sentence for the client
func detailOf(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Request failed"
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
