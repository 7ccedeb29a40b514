package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tableside/internal/pkg/clock"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPaymentInitiation = errs.New("payment initiation failed")

// Gateway acknowledgement codes, part of the external contract: the gateway
// retries on AckRetry (bounded, up to 3 attempts) and stops on the other two.
const (
	AckAccepted          = 1
	AckSignatureMismatch = -1
	AckRetry             = 0
)

type GatewayItem struct {
	Name     string
	Price    int64
	Quantity int32
}

type GatewayOrder struct {
	TransactionID string
	AppUser       string
	Amount        int64
	Items         []GatewayItem
	Description   string
}

// PaymentGateway is the outbound half of the reconciler: signing and wire
// formats live behind it so the command layer never sees a secret.
type PaymentGateway interface {
	NewTransactionID(now time.Time) string
	CreateOrder(ctx context.Context, ord GatewayOrder) (redirectURL string, err error)
	VerifyCallback(data, mac string) bool
	QueryStatus(ctx context.Context, transactionID string) (json.RawMessage, error)
}

type CallbackPayload struct {
	Data string
	Mac  string
}

type GatewayPaymentResult struct {
	RedirectURL string
	Orders      []*queries.OrderView
}

type CallbackResult struct {
	Code         int
	Message      string
	Orders       []*queries.OrderView
	ConnectionID *string
}

type GatewayCommands interface {
	PayWithGateway(ctx context.Context, guestID uuid.UUID) (*GatewayPaymentResult, error)
	HandleCallback(ctx context.Context, payload CallbackPayload) *CallbackResult
	CheckStatus(ctx context.Context, transactionID string) (json.RawMessage, error)
}

type gatewayCommandsImpl struct {
	uow          shared.UnitOfWork
	gateway      PaymentGateway
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewGatewayCommands(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	orderQueries queries.OrderQueries,
	clock clock.Clock,
) GatewayCommands {
	return &gatewayCommandsImpl{
		uow:          uow,
		gateway:      gateway,
		orderQueries: orderQueries,
		clock:        clock,
	}
}

// PayWithGateway initiates an online settlement for the guest's eligible
// orders. The amount is computed from the stored snapshots, never from client
// input. Orders are stamped with the transaction id only after the gateway
// accepted the request, so a timeout fails closed and the caller may retry.
func (c *gatewayCommandsImpl) PayWithGateway(ctx context.Context, guestID uuid.UUID) (*GatewayPaymentResult, error) {
	eligible, err := c.uow.Reads().EligibleOrdersByGuest(ctx, guestID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(eligible) == 0 {
		return nil, ErrNothingToSettle
	}

	var total int64
	ids := make([]uuid.UUID, len(eligible))
	items := make([]GatewayItem, len(eligible))
	for i, o := range eligible {
		ids[i] = o.ID
		total += o.SnapshotPrice * int64(o.Quantity)
		items[i] = GatewayItem{
			Name:     o.SnapshotName,
			Price:    o.SnapshotPrice,
			Quantity: o.Quantity,
		}
	}

	ord := GatewayOrder{
		TransactionID: c.gateway.NewTransactionID(c.clock.Now()),
		AppUser:       guestID.String(),
		Amount:        total,
		Items:         items,
		Description:   fmt.Sprintf("Payment for %d orders at Tableside", len(eligible)),
	}

	redirectURL, err := c.gateway.CreateOrder(ctx, ord)
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentInitiation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().StampTransaction(ctx, ids, ord.TransactionID)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	views, err := c.orderQueries.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &GatewayPaymentResult{RedirectURL: redirectURL, Orders: views}, nil
}

type callbackData struct {
	TransactionID string `json:"app_trans_id"`
	AppUser       string `json:"app_user"`
}

// HandleCallback reconciles an asynchronous gateway notification. The MAC over
// the raw data blob is the authoritative integrity check; a mismatch is
// acknowledged negatively without touching any order. The bulk transition is
// idempotent, so the gateway replaying a callback is harmless. Every internal
// failure is converted into AckRetry instead of an error, this path must never
// crash the handler.
func (c *gatewayCommandsImpl) HandleCallback(ctx context.Context, payload CallbackPayload) (result *CallbackResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in gateway callback", "panic", r)
			result = &CallbackResult{Code: AckRetry, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if !c.gateway.VerifyCallback(payload.Data, payload.Mac) {
		return &CallbackResult{Code: AckSignatureMismatch, Message: "mac not equal"}
	}

	var data callbackData
	if err := json.Unmarshal([]byte(payload.Data), &data); err != nil {
		return &CallbackResult{Code: AckRetry, Message: "malformed callback data"}
	}
	if data.TransactionID == "" {
		return &CallbackResult{Code: AckRetry, Message: "missing transaction id"}
	}

	var connectionID *string
	if buyerID, err := uuid.Parse(data.AppUser); err == nil {
		if conn, connErr := c.uow.Reads().ConnectionBySubject(ctx, buyerID); connErr == nil {
			connectionID = conn
		}
	}

	// A zero-row update is either a replay of an already-settled transaction
	// (fine) or a callback that raced ahead of the transaction stamp (ask the
	// gateway to retry, its retries are bounded and the stamp lands shortly).
	known := true
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		settled, txErr := tx.Orders().MarkPaidByTransaction(ctx, data.TransactionID)
		if txErr != nil {
			return txErr
		}
		if settled == 0 {
			ids, readErr := tx.Reads().OrdersByTransactionID(ctx, data.TransactionID)
			if readErr != nil {
				return readErr
			}
			known = len(ids) > 0
		}
		return nil
	})
	if err != nil {
		slog.Error("gateway callback settlement failed", "transaction_id", data.TransactionID, "error", err.Error())
		return &CallbackResult{Code: AckRetry, Message: err.Error()}
	}
	if !known {
		return &CallbackResult{Code: AckRetry, Message: "transaction not found"}
	}

	views, err := c.orderQueries.GetByTransactionID(ctx, data.TransactionID)
	if err != nil {
		return &CallbackResult{Code: AckRetry, Message: err.Error()}
	}

	return &CallbackResult{
		Code:         AckAccepted,
		Message:      "success",
		Orders:       views,
		ConnectionID: connectionID,
	}
}

// CheckStatus is a pure passthrough lookup; it is not part of the state machine.
func (c *gatewayCommandsImpl) CheckStatus(ctx context.Context, transactionID string) (json.RawMessage, error) {
	body, err := c.gateway.QueryStatus(ctx, transactionID)
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentInitiation)
	}
	return body, nil
}
