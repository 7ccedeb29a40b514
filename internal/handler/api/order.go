package api

import (
	"errors"
	"fmt"
	"net/http"

	reqdto "tableside/internal/handler/dto/request"
	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/handler/middleware"
	"tableside/internal/notify"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
	notifier      *notify.Notifier
}

func NewOrderHandler(
	orderCommands commands.OrderCommands,
	orderQueries queries.OrderQueries,
	notifier *notify.Notifier,
) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
		notifier:      notifier,
	}
}

func (h *OrderHandler) CreateOrders(c *gin.Context) {
	handlerID, ok := middleware.GetSubjectID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("subject missing from context"), "Internal server error")
		return
	}

	var req reqdto.CreateOrdersRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	result, err := h.orderCommands.CreateOrders(c.Request.Context(), handlerID, req.GuestID, req.ToLines())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrGuestNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Guest not found")
		case errors.Is(err, commands.ErrGuestTableRemoved):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Guest is no longer seated at a table")
		case errors.Is(err, commands.ErrTableNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found")
		case errors.Is(err, commands.ErrTableHidden):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Table is hidden, orders cannot be placed")
		case errors.Is(err, commands.ErrDishNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Dish not found")
		case errors.Is(err, commands.ErrDishUnavailable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Dish cannot be ordered")
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	h.notifier.Dispatch(notify.Event{
		Name:         notify.EventNewOrder,
		ConnectionID: result.ConnectionID,
		Payload:      result.Orders,
		Notice: &notify.Notice{
			Title:   "New order",
			Content: fmt.Sprintf("%d new orders placed", len(result.Orders)),
		},
	})
	resdto.JSON(c, http.StatusCreated, "Orders created successfully", result.Orders)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q reqdto.ListOrdersQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters")
		return
	}

	rng, err := q.ToDateRange()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected RFC3339")
		return
	}

	views, err := h.orderQueries.List(c.Request.Context(), rng)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "Orders retrieved successfully", views)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format")
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found")
		return
	}

	resdto.JSON(c, http.StatusOK, "Order retrieved successfully", view)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	handlerID, ok := middleware.GetSubjectID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("subject missing from context"), "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format")
		return
	}

	var req reqdto.UpdateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order status")
		return
	}

	if forbidden := h.rejectStatusChange(c, id, params); forbidden {
		return
	}

	result, err := h.orderCommands.UpdateOrder(c.Request.Context(), id, params, handlerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found")
		case errors.Is(err, commands.ErrOrderAlreadyPaid):
			httperr.AbortWithError(c, http.StatusConflict, err, "Order has already been paid")
		case errors.Is(err, commands.ErrIllegalStatusTransition):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Illegal status transition")
		case errors.Is(err, commands.ErrDishNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Dish not found")
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	h.notifier.Dispatch(notify.Event{
		Name:         notify.EventUpdateOrder,
		ConnectionID: result.ConnectionID,
		Payload:      result.Order,
		Notice: &notify.Notice{
			Title:   "Order updated",
			Content: "Order " + result.Order.Snapshot.Name + " is now " + result.Order.Status,
		},
	})
	resdto.JSON(c, http.StatusOK, "Order updated successfully", result.Order)
}

// rejectStatusChange enforces the owner-only status edit: an employee may
// change dish or quantity but the status field must stay as it is.
func (h *OrderHandler) rejectStatusChange(c *gin.Context, id uuid.UUID, params commands.UpdateOrderParams) bool {
	role, ok := middleware.GetRole(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("role missing from context"), "Internal server error")
		return true
	}
	if role.CanChangeOrderStatus() {
		return false
	}

	current, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found")
		return true
	}
	if current.Status != params.Status.String() {
		httperr.AbortWithError(c, http.StatusForbidden,
			errs.New("status change forbidden for role"), "Insufficient permissions to change order status")
		return true
	}
	return false
}
