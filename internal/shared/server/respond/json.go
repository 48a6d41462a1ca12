package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Toast writes payload with a user-facing "toast" message merged in.
func Toast(c *gin.Context, status int, toast string, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["toast"] = toast
	JSON(c, status, payload)
}

// Invalid rejects a request that failed form rules. No backend call is made
// for such requests.
func Invalid(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, "validation_error", message, details)
}
