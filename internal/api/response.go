// internal/api/response.go
package api

import (
	goerrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "callguard/internal/common/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// writeError maps an error to a structured JSON body plus the status implied
// by the error taxonomy: caller faults 400, everything else 500.
func writeError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	var se *apperrors.StandardError
	if goerrors.As(err, &se) {
		c.JSON(status, gin.H{"error": apiError{
			Code:    string(se.Code),
			Message: se.Message,
			Details: se.Details,
		}})
		return
	}
	c.JSON(status, gin.H{"error": apiError{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": apiError{Code: code, Message: message}})
}
