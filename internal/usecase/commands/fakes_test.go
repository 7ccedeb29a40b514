//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tableside/internal/domain/order"
	"tableside/internal/domain/table"
	"tableside/internal/infra"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

// orderRec is the persisted shape of one order line in the fake store,
// denormalized with the captured snapshot fields settlement reads back.
type orderRec struct {
	ID            uuid.UUID
	GuestID       *uuid.UUID
	SnapshotID    uuid.UUID
	Quantity      int32
	Status        order.Status
	TableNumber   *int32
	TransactionID *string
	HandlerID     uuid.UUID
	CreatedAt     time.Time
}

type storeState struct {
	guests        map[uuid.UUID]shared.GuestSnapshot
	tables        map[int32]shared.TableSnapshot
	dishes        map[uuid.UUID]shared.DishRecord
	snapshots     map[uuid.UUID]shared.DishRecord
	orders        map[uuid.UUID]orderRec
	connections   map[uuid.UUID]string
	notifications map[int64]shared.NotificationRecord
	revoked       []int32
}

func newStoreState() *storeState {
	return &storeState{
		guests:        make(map[uuid.UUID]shared.GuestSnapshot),
		tables:        make(map[int32]shared.TableSnapshot),
		dishes:        make(map[uuid.UUID]shared.DishRecord),
		snapshots:     make(map[uuid.UUID]shared.DishRecord),
		orders:        make(map[uuid.UUID]orderRec),
		connections:   make(map[uuid.UUID]string),
		notifications: make(map[int64]shared.NotificationRecord),
	}
}

func (s *storeState) clone() *storeState {
	c := newStoreState()
	for k, v := range s.guests {
		c.guests[k] = v
	}
	for k, v := range s.tables {
		c.tables[k] = v
	}
	for k, v := range s.dishes {
		c.dishes[k] = v
	}
	for k, v := range s.snapshots {
		c.snapshots[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.connections {
		c.connections[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	c.revoked = append(c.revoked, s.revoked...)
	return c
}

// fakeUoW commits the transactional clone only when fn succeeds, so tests can
// assert that a mid-batch failure leaves the store untouched.
type fakeUoW struct {
	state *storeState
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: newStoreState()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	staged := u.state.clone()
	if err := fn(ctx, &fakeTx{state: staged}); err != nil {
		return err
	}
	u.state = staged
	return nil
}

func (u *fakeUoW) Reads() shared.CommandReads {
	return &fakeReads{state: u.state}
}

type fakeTx struct {
	state *storeState
}

func (t *fakeTx) Orders() shared.OrderRepository       { return &fakeOrderRepo{state: t.state} }
func (t *fakeTx) Snapshots() shared.SnapshotRepository { return &fakeSnapshotRepo{state: t.state} }
func (t *fakeTx) Tables() shared.TableRepository       { return &fakeTableRepo{state: t.state} }
func (t *fakeTx) Guests() shared.GuestRepository       { return &fakeGuestRepo{state: t.state} }
func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotificationRepo{state: t.state}
}
func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{state: t.state} }

type fakeReads struct {
	state *storeState
}

func notFound() error {
	return infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound)
}

func (r *fakeReads) GuestByID(_ context.Context, id uuid.UUID) (*shared.GuestSnapshot, error) {
	g, ok := r.state.guests[id]
	if !ok {
		return nil, notFound()
	}
	return &g, nil
}

func (r *fakeReads) TableByNumber(_ context.Context, number int32) (*shared.TableSnapshot, error) {
	tbl, ok := r.state.tables[number]
	if !ok {
		return nil, notFound()
	}
	return &tbl, nil
}

func (r *fakeReads) DishByID(_ context.Context, id uuid.UUID) (*shared.DishRecord, error) {
	d, ok := r.state.dishes[id]
	if !ok {
		return nil, notFound()
	}
	return &d, nil
}

func (r *fakeReads) OrderByID(_ context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	o, ok := r.state.orders[id]
	if !ok {
		return nil, notFound()
	}
	snap := r.state.snapshots[o.SnapshotID]
	dishID := snap.ID
	return &shared.OrderSnapshot{
		ID:             o.ID,
		GuestID:        o.GuestID,
		SnapshotID:     o.SnapshotID,
		SnapshotDishID: &dishID,
		Quantity:       o.Quantity,
		Status:         o.Status,
		TableNumber:    o.TableNumber,
		TransactionID:  o.TransactionID,
		CreatedAt:      o.CreatedAt,
	}, nil
}

func eligible(status order.Status) bool {
	switch status {
	case order.StatusPending, order.StatusProcessing, order.StatusDelivered:
		return true
	default:
		return false
	}
}

func (r *fakeReads) EligibleOrdersByGuest(_ context.Context, guestID uuid.UUID) ([]shared.EligibleOrder, error) {
	var result []shared.EligibleOrder
	for _, o := range r.state.orders {
		if o.GuestID == nil || *o.GuestID != guestID || !eligible(o.Status) {
			continue
		}
		snap := r.state.snapshots[o.SnapshotID]
		result = append(result, shared.EligibleOrder{
			ID:            o.ID,
			SnapshotName:  snap.Name,
			SnapshotPrice: snap.Price,
			Quantity:      o.Quantity,
			Status:        o.Status,
		})
	}
	return result, nil
}

func (r *fakeReads) OrdersByTransactionID(_ context.Context, transactionID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, o := range r.state.orders {
		if o.TransactionID != nil && *o.TransactionID == transactionID {
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (r *fakeReads) ConnectionBySubject(_ context.Context, subjectID uuid.UUID) (*string, error) {
	conn, ok := r.state.connections[subjectID]
	if !ok {
		return nil, nil
	}
	return &conn, nil
}

type fakeOrderRepo struct {
	state *storeState
}

func (f *fakeOrderRepo) Insert(_ context.Context, o *order.Order) (uuid.UUID, error) {
	guestID := o.GuestID()
	tableNumber := o.TableNumber()
	f.state.orders[o.ID()] = orderRec{
		ID:          o.ID(),
		GuestID:     &guestID,
		SnapshotID:  o.SnapshotID(),
		Quantity:    o.Quantity(),
		Status:      o.Status(),
		TableNumber: &tableNumber,
		HandlerID:   o.HandlerID(),
		CreatedAt:   time.Now(),
	}
	return o.ID(), nil
}

func (f *fakeOrderRepo) Update(_ context.Context, id uuid.UUID, patch shared.OrderUpdate) error {
	o, ok := f.state.orders[id]
	if !ok {
		return notFound()
	}
	o.Status = patch.Status
	o.SnapshotID = patch.SnapshotID
	o.Quantity = patch.Quantity
	o.HandlerID = patch.HandlerID
	f.state.orders[id] = o
	return nil
}

func (f *fakeOrderRepo) MarkPaidByIDs(_ context.Context, ids []uuid.UUID, handlerID uuid.UUID) (int64, error) {
	var updated int64
	for _, id := range ids {
		o, ok := f.state.orders[id]
		if !ok || !eligible(o.Status) {
			continue
		}
		o.Status = order.StatusPaid
		o.HandlerID = handlerID
		f.state.orders[id] = o
		updated++
	}
	return updated, nil
}

func (f *fakeOrderRepo) StampTransaction(_ context.Context, ids []uuid.UUID, transactionID string) error {
	for _, id := range ids {
		o, ok := f.state.orders[id]
		if !ok {
			continue
		}
		tid := transactionID
		o.TransactionID = &tid
		f.state.orders[id] = o
	}
	return nil
}

func (f *fakeOrderRepo) MarkPaidByTransaction(_ context.Context, transactionID string) (int64, error) {
	var updated int64
	for id, o := range f.state.orders {
		if o.TransactionID == nil || *o.TransactionID != transactionID || !eligible(o.Status) {
			continue
		}
		o.Status = order.StatusPaid
		f.state.orders[id] = o
		updated++
	}
	return updated, nil
}

type fakeSnapshotRepo struct {
	state *storeState
}

func (f *fakeSnapshotRepo) Capture(_ context.Context, d *shared.DishRecord) (uuid.UUID, error) {
	id := uuid.New()
	f.state.snapshots[id] = *d
	return id, nil
}

type fakeTableRepo struct {
	state *storeState
}

func (f *fakeTableRepo) Insert(_ context.Context, number int32, capacity int32, status table.Status, token string) error {
	if _, exists := f.state.tables[number]; exists {
		return infra.WrapRepoErr("duplicate", errors.New("unique violation"), infra.KindDuplicateKey)
	}
	f.state.tables[number] = shared.TableSnapshot{Number: number, Capacity: capacity, Status: status, Token: token}
	return nil
}

func (f *fakeTableRepo) Update(_ context.Context, number int32, capacity int32, status table.Status) error {
	tbl, ok := f.state.tables[number]
	if !ok {
		return notFound()
	}
	tbl.Capacity = capacity
	tbl.Status = status
	f.state.tables[number] = tbl
	return nil
}

func (f *fakeTableRepo) RotateToken(_ context.Context, number int32, token string) error {
	tbl, ok := f.state.tables[number]
	if !ok {
		return notFound()
	}
	tbl.Token = token
	f.state.tables[number] = tbl
	return nil
}

func (f *fakeTableRepo) Delete(_ context.Context, number int32) error {
	if _, ok := f.state.tables[number]; !ok {
		return notFound()
	}
	delete(f.state.tables, number)
	return nil
}

type fakeGuestRepo struct {
	state *storeState
}

func (f *fakeGuestRepo) RevokeSessionsByTable(_ context.Context, number int32) error {
	f.state.revoked = append(f.state.revoked, number)
	return nil
}

type fakeNotificationRepo struct {
	state *storeState
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id int64) (*shared.NotificationRecord, error) {
	n, ok := f.state.notifications[id]
	if !ok {
		return nil, notFound()
	}
	n.IsRead = true
	f.state.notifications[id] = n
	return &n, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context) error {
	for id, n := range f.state.notifications {
		n.IsRead = true
		f.state.notifications[id] = n
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteAll(_ context.Context) error {
	f.state.notifications = make(map[int64]shared.NotificationRecord)
	return nil
}

// fakeOrderQueries rehydrates views straight from the fake store.
type fakeOrderQueries struct {
	uow *fakeUoW
}

func (q *fakeOrderQueries) view(o orderRec) *queries.OrderView {
	snap := q.uow.state.snapshots[o.SnapshotID]
	dishID := snap.ID
	return &queries.OrderView{
		ID:            o.ID,
		GuestID:       o.GuestID,
		TableNumber:   o.TableNumber,
		Quantity:      o.Quantity,
		Status:        o.Status.String(),
		TransactionID: o.TransactionID,
		Snapshot: queries.SnapshotView{
			ID:     o.SnapshotID,
			DishID: &dishID,
			Name:   snap.Name,
			Price:  snap.Price,
			Status: snap.Status.String(),
		},
		CreatedAt: o.CreatedAt,
	}
}

func (q *fakeOrderQueries) List(_ context.Context, _ queries.DateRange) ([]*queries.OrderView, error) {
	var views []*queries.OrderView
	for _, o := range q.uow.state.orders {
		views = append(views, q.view(o))
	}
	return views, nil
}

func (q *fakeOrderQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	o, ok := q.uow.state.orders[id]
	if !ok {
		return nil, notFound()
	}
	return q.view(o), nil
}

func (q *fakeOrderQueries) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*queries.OrderView, error) {
	var views []*queries.OrderView
	for _, id := range ids {
		if o, ok := q.uow.state.orders[id]; ok {
			views = append(views, q.view(o))
		}
	}
	return views, nil
}

func (q *fakeOrderQueries) GetByTransactionID(_ context.Context, transactionID string) ([]*queries.OrderView, error) {
	var views []*queries.OrderView
	for _, o := range q.uow.state.orders {
		if o.TransactionID != nil && *o.TransactionID == transactionID {
			views = append(views, q.view(o))
		}
	}
	return views, nil
}

type fakeTableQueries struct {
	uow *fakeUoW
}

func (q *fakeTableQueries) List(_ context.Context) ([]*queries.TableView, error) {
	var views []*queries.TableView
	for _, tbl := range q.uow.state.tables {
		views = append(views, &queries.TableView{
			Number:   tbl.Number,
			Capacity: tbl.Capacity,
			Status:   tbl.Status.String(),
			Token:    tbl.Token,
		})
	}
	return views, nil
}

func (q *fakeTableQueries) GetByNumber(_ context.Context, number int32) (*queries.TableView, error) {
	tbl, ok := q.uow.state.tables[number]
	if !ok {
		return nil, notFound()
	}
	return &queries.TableView{
		Number:   tbl.Number,
		Capacity: tbl.Capacity,
		Status:   tbl.Status.String(),
		Token:    tbl.Token,
	}, nil
}

// fakeGateway records the outbound order and verifies callbacks against a
// fixed signing rule so tests can forge valid and invalid MACs.
type fakeGateway struct {
	createdOrders []commands.GatewayOrder
	createErr     error
	redirectURL   string
	statusBody    json.RawMessage
	statusErr     error
}

func (g *fakeGateway) sign(data string) string {
	return "mac:" + data
}

func (g *fakeGateway) NewTransactionID(now time.Time) string {
	return now.Format("060102") + "_424242"
}

func (g *fakeGateway) CreateOrder(_ context.Context, ord commands.GatewayOrder) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	g.createdOrders = append(g.createdOrders, ord)
	return g.redirectURL, nil
}

func (g *fakeGateway) VerifyCallback(data, mac string) bool {
	return g.sign(data) == mac
}

func (g *fakeGateway) QueryStatus(_ context.Context, _ string) (json.RawMessage, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.statusBody, nil
}
