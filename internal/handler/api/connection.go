package api

import (
	"errors"
	"net/http"

	reqdto "tableside/internal/handler/dto/request"
	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/handler/middleware"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionCommands commands.ConnectionCommands
}

func NewConnectionHandler(connectionCommands commands.ConnectionCommands) *ConnectionHandler {
	return &ConnectionHandler{connectionCommands: connectionCommands}
}

// Register binds the authenticated subject to its live connection id. Called by
// the socket gateway on every connect, so an upsert replaces stale bindings.
func (h *ConnectionHandler) Register(c *gin.Context) {
	subjectID, ok := middleware.GetSubjectID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("subject missing from context"), "Internal server error")
		return
	}

	var req reqdto.RegisterConnectionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	err := h.connectionCommands.Register(c.Request.Context(), subjectID, req.ConnectionID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Connection ID required")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusOK, "Connection registered successfully", nil)
}
