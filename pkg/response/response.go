package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes {"error": message} and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// JSON writes data as-is; resources are returned without an envelope.
func JSON(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
