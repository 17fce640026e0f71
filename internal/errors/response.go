package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error   string `json:"error"`             // code from codes.go
	Message string `json:"message"`           // human-readable
	Details string `json:"details,omitempty"` // underlying error text, if any
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithDetails also exposes the underlying error text. Used for
// persistence failures so the client can report what went wrong.
func RespondWithDetails(c *gin.Context, statusCode int, errorCode, message string, err error) {
	resp := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(statusCode, resp)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "Something went wrong, please try again"
	}
	RespondWithDetails(c, http.StatusInternalServerError, InternalServerError, message, err)
}

// InvalidBody answers a request whose JSON could not be bound.
func InvalidBody(c *gin.Context, err error) {
	RespondWithDetails(c, http.StatusBadRequest, ValidationInvalidInput, "Invalid request data", err)
}

type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // per-field messages
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationRequired,
		Message: "Some fields are missing or invalid",
		Fields:  fields,
	})
}
