package queries

import (
	"context"
	"sort"

	"tableside/internal/domain/order"

	"github.com/google/uuid"
)

type DashboardIndicator struct {
	Revenue           int64            `json:"revenue"`
	GuestCount        int              `json:"guest_count"`
	OrderCount        int              `json:"order_count"`
	OrderPaidCount    int              `json:"order_paid_count"`
	ServingTableCount int              `json:"serving_table_count"`
	DishIndicator     []*DishIndicator `json:"dish_indicator"`
	RevenueByDate     []RevenueByDate  `json:"revenue_by_date"`
}

type DishIndicator struct {
	DishView
	SuccessOrders int64 `json:"success_orders"`
}

type RevenueByDate struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type DishViewRepo interface {
	List(ctx context.Context) ([]*DishView, error)
}

type IndicatorQueries interface {
	Dashboard(ctx context.Context, rng DateRange) (*DashboardIndicator, error)
}

type indicatorQueriesImpl struct {
	orders OrderViewRepo
	dishes DishViewRepo
}

func NewIndicatorQueries(orders OrderViewRepo, dishes DishViewRepo) IndicatorQueries {
	return &indicatorQueriesImpl{orders: orders, dishes: dishes}
}

func (q *indicatorQueriesImpl) Dashboard(ctx context.Context, rng DateRange) (*DashboardIndicator, error) {
	orders, err := q.orders.FindByDateRange(ctx, rng)
	if err != nil {
		return nil, err
	}
	dishes, err := q.dishes.List(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(orders, dishes), nil
}

// Aggregate derives the dashboard figures by replaying an already-fetched
// order set. Only the top-level revenue and the paid-order count filter on
// Paid; per-dish quantities and the per-date revenue series deliberately
// include every status (kept from the observed billing reports).
func Aggregate(orders []*OrderView, dishes []*DishView) *DashboardIndicator {
	var revenue int64
	paidCount := 0
	guests := make(map[uuid.UUID]struct{})
	tables := make(map[int32]struct{})
	perDish := make(map[uuid.UUID]int64)
	perDate := make(map[string]int64)

	for _, o := range orders {
		lineTotal := o.Snapshot.Price * int64(o.Quantity)

		if o.Status == order.StatusPaid.String() {
			revenue += lineTotal
			paidCount++
		}
		if o.GuestID != nil {
			guests[*o.GuestID] = struct{}{}
		}
		if o.TableNumber != nil {
			tables[*o.TableNumber] = struct{}{}
		}
		if o.Snapshot.DishID != nil {
			perDish[*o.Snapshot.DishID] += int64(o.Quantity)
		}
		perDate[o.CreatedAt.Format("2006-01-02")] += lineTotal
	}

	dishIndicator := make([]*DishIndicator, len(dishes))
	for i, d := range dishes {
		dishIndicator[i] = &DishIndicator{
			DishView:      *d,
			SuccessOrders: perDish[d.ID],
		}
	}

	revenueByDate := make([]RevenueByDate, 0, len(perDate))
	for date, rev := range perDate {
		revenueByDate = append(revenueByDate, RevenueByDate{Date: date, Revenue: rev})
	}
	sort.Slice(revenueByDate, func(i, j int) bool {
		return revenueByDate[i].Date < revenueByDate[j].Date
	})

	return &DashboardIndicator{
		Revenue:           revenue,
		GuestCount:        len(guests),
		OrderCount:        len(orders),
		OrderPaidCount:    paidCount,
		ServingTableCount: len(tables),
		DishIndicator:     dishIndicator,
		RevenueByDate:     revenueByDate,
	}
}
