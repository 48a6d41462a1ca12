package respond

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// InvalidBodyMessage is sent when a request body is not valid JSON for the
// endpoint.
const InvalidBodyMessage = "invalid request body"

// BindJSON decodes the request body into dst. An empty body leaves dst at its
// zero value; a malformed one is rejected with 400 and BindJSON reports false.
func BindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	Invalid(c, InvalidBodyMessage, map[string]string{"body": err.Error()})
	return false
}
