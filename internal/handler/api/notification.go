package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationCommands commands.NotificationCommands
	notificationQueries  queries.NotificationQueries
}

func NewNotificationHandler(
	notificationCommands commands.NotificationCommands,
	notificationQueries queries.NotificationQueries,
) *NotificationHandler {
	return &NotificationHandler{
		notificationCommands: notificationCommands,
		notificationQueries:  notificationQueries,
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	views, err := h.notificationQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "Notifications retrieved successfully", views)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid notification ID format")
		return
	}

	view, err := h.notificationCommands.MarkRead(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotificationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Notification not found")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusOK, "Notification marked as read", view)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationCommands.MarkAllRead(c.Request.Context()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "All notifications marked as read", nil)
}

func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	if err := h.notificationCommands.DeleteAll(c.Request.Context()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "All notifications deleted", nil)
}
