package queries

import (
	"context"
	"time"
)

type TableView struct {
	Number    int32     `json:"number"`
	Capacity  int32     `json:"capacity"`
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TableQueries interface {
	List(ctx context.Context) ([]*TableView, error)
	GetByNumber(ctx context.Context, number int32) (*TableView, error)
}

type TableViewRepo interface {
	FindAll(ctx context.Context) ([]*TableView, error)
	FindByNumber(ctx context.Context, number int32) (*TableView, error)
}

type tableQueriesImpl struct {
	repo TableViewRepo
}

func NewTableQueries(repo TableViewRepo) TableQueries {
	return &tableQueriesImpl{repo: repo}
}

func (q *tableQueriesImpl) List(ctx context.Context) ([]*TableView, error) {
	return q.repo.FindAll(ctx)
}

func (q *tableQueriesImpl) GetByNumber(ctx context.Context, number int32) (*TableView, error) {
	return q.repo.FindByNumber(ctx, number)
}
