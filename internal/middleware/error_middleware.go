package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// ErrorStatus maps an application error onto its HTTP status and error code
func ErrorStatus(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)

	detail := dto.NewErrorDetail(code, apperrors.Message(err))
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		detail = dto.NewErrorDetail(code, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
	}

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Field() != "" {
		detail = detail.WithField(ce.Field())
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandleBindingError answers a request whose body or query could not be bound
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
