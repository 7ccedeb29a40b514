package request

import (
	"time"

	"tableside/internal/domain/order"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderLineRequest struct {
	DishID   uuid.UUID `json:"dish_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required"`
}

type CreateOrdersRequest struct {
	GuestID uuid.UUID          `json:"guest_id" binding:"required"`
	Orders  []OrderLineRequest `json:"orders" binding:"required,min=1"`
}

func (r CreateOrdersRequest) ToLines() []commands.OrderLine {
	lines := make([]commands.OrderLine, len(r.Orders))
	for i, o := range r.Orders {
		lines[i] = commands.OrderLine{DishID: o.DishID, Quantity: o.Quantity}
	}
	return lines
}

type UpdateOrderRequest struct {
	Status   string    `json:"status" binding:"required"`
	DishID   uuid.UUID `json:"dish_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required"`
}

func (r UpdateOrderRequest) ToParams() (commands.UpdateOrderParams, error) {
	status, err := order.NewStatus(r.Status)
	if err != nil {
		return commands.UpdateOrderParams{}, err
	}
	return commands.UpdateOrderParams{
		Status:   status,
		DishID:   r.DishID,
		Quantity: r.Quantity,
	}, nil
}

type PayOrdersRequest struct {
	GuestID uuid.UUID `json:"guest_id" binding:"required"`
}

// CallbackRequest is the gateway's asynchronous notification; data is an opaque
// blob whose integrity is proven by the mac, so it is not parsed at this layer.
type CallbackRequest struct {
	Data string `json:"data" binding:"required"`
	Mac  string `json:"mac" binding:"required"`
}

// ListOrdersQuery carries optional RFC3339 bounds on creation time.
type ListOrdersQuery struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

func (q ListOrdersQuery) ToDateRange() (queries.DateRange, error) {
	var rng queries.DateRange
	if q.FromDate != "" {
		from, err := time.Parse(time.RFC3339, q.FromDate)
		if err != nil {
			return queries.DateRange{}, err
		}
		rng.From = &from
	}
	if q.ToDate != "" {
		to, err := time.Parse(time.RFC3339, q.ToDate)
		if err != nil {
			return queries.DateRange{}, err
		}
		rng.To = &to
	}
	return rng, nil
}
