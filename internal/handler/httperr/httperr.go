package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the failure half of the response envelope: the same top-level
// message field success replies carry, with no data.
type Response struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status, Message: msg}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
