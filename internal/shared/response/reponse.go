package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"library-backend/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Total int `json:"total"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes the error envelope
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// HandleError maps service errors to the envelope.
// Anything that is not an AppError is reported as 500 without its text.
func HandleError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		BadRequest(c, "Validation failed", ValidationDetails(fieldErrs))
		return
	}

	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal("Internal server error", err)
	}
	if apperror.IsKind(appErr, apperror.KindInternal) {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Internal error")
	}

	var details interface{}
	if len(appErr.Details) > 0 {
		details = appErr.Details
	}
	Error(c, appErr.HTTPStatus(), appErr.Code, appErr.Message, details)
}

// Common error responses
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, string(apperror.KindValidation), message, details)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, string(apperror.KindUnauthorized), message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, string(apperror.KindPermission), message, nil)
}

// ValidationDetails flattens ozzo field errors into field -> message
func ValidationDetails(errs validation.Errors) map[string]string {
	details := make(map[string]string, len(errs))
	for field, err := range errs {
		details[field] = err.Error()
	}
	return details
}
