package api

import (
	"errors"
	"fmt"
	"net/http"

	"tableside/internal/domain/staff"
	reqdto "tableside/internal/handler/dto/request"
	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/handler/middleware"
	"tableside/internal/notify"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	settlementCommands commands.SettlementCommands
	gatewayCommands    commands.GatewayCommands
	notifier           *notify.Notifier
}

func NewPaymentHandler(
	settlementCommands commands.SettlementCommands,
	gatewayCommands commands.GatewayCommands,
	notifier *notify.Notifier,
) *PaymentHandler {
	return &PaymentHandler{
		settlementCommands: settlementCommands,
		gatewayCommands:    gatewayCommands,
		notifier:           notifier,
	}
}

// PayOrders is the in-person settlement path, owner only (gated in the router).
func (h *PaymentHandler) PayOrders(c *gin.Context) {
	handlerID, ok := middleware.GetSubjectID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("subject missing from context"), "Internal server error")
		return
	}

	var req reqdto.PayOrdersRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	result, err := h.settlementCommands.PayOrders(c.Request.Context(), req.GuestID, handlerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNothingToSettle):
			httperr.AbortWithError(c, http.StatusConflict, err, "Guest has no orders eligible for settlement")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	h.notifier.Dispatch(notify.Event{
		Name:         notify.EventPayment,
		ConnectionID: result.ConnectionID,
		Payload:      result.Orders,
		Notice: &notify.Notice{
			Title:   "Payment received",
			Content: fmt.Sprintf("%d orders settled in person", len(result.Orders)),
		},
	})
	resdto.JSON(c, http.StatusOK, "Orders paid successfully", result.Orders)
}

// PayWithGateway starts an online settlement. A guest pays their own orders;
// staff may initiate on behalf of a guest by passing the guest id.
func (h *PaymentHandler) PayWithGateway(c *gin.Context) {
	subjectID, ok := middleware.GetSubjectID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("subject missing from context"), "Internal server error")
		return
	}

	guestID := subjectID
	if role, _ := middleware.GetRole(c); role != staff.RoleGuest {
		var req reqdto.PayOrdersRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
			return
		}
		guestID = req.GuestID
	}

	result, err := h.gatewayCommands.PayWithGateway(c.Request.Context(), guestID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNothingToSettle):
			httperr.AbortWithError(c, http.StatusConflict, err, "Guest has no orders eligible for settlement")
		case errors.Is(err, commands.ErrPaymentInitiation):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway rejected the request")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusOK, "Payment initiated successfully", resdto.GatewayPaymentResponse{
		RedirectURL: result.RedirectURL,
		Orders:      result.Orders,
	})
}

// Callback is unauthenticated: the MAC over the data blob is the integrity
// check. The response body is the gateway acknowledgement contract, always 200.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.CallbackRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusOK, resdto.CallbackAck{
			ReturnCode:    commands.AckRetry,
			ReturnMessage: "malformed callback body",
		})
		return
	}

	result := h.gatewayCommands.HandleCallback(c.Request.Context(), commands.CallbackPayload{
		Data: req.Data,
		Mac:  req.Mac,
	})

	if result.Code == commands.AckAccepted {
		h.notifier.Dispatch(notify.Event{
			Name:         notify.EventPayment,
			ConnectionID: result.ConnectionID,
			Payload:      result.Orders,
			Notice: &notify.Notice{
				Title:   "Payment received",
				Content: fmt.Sprintf("%d orders settled online", len(result.Orders)),
			},
		})
	}

	c.JSON(http.StatusOK, resdto.CallbackAck{
		ReturnCode:    result.Code,
		ReturnMessage: result.Message,
	})
}

func (h *PaymentHandler) CheckStatus(c *gin.Context) {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.New("empty transaction id"), "Transaction ID required")
		return
	}

	body, err := h.gatewayCommands.CheckStatus(c.Request.Context(), transactionID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway rejected the request")
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
