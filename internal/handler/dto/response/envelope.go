package response

import "github.com/gin-gonic/gin"

// Envelope is the uniform success shape: a human-readable message plus the
// affected resource(s).
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Message: message, Data: data})
}
