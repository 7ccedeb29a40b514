package commands

import (
	"context"

	"tableside/internal/domain/table"
	"tableside/internal/infra"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"
)

var (
	ErrDuplicateTableNumber = errs.New("duplicate table number")
	ErrInvalidTableNumber   = errs.New("invalid table number")
)

type CreateTableParams struct {
	Number   int64
	Capacity int32
	Status   table.Status
}

type UpdateTableParams struct {
	Capacity    int32
	Status      table.Status
	ChangeToken bool
}

type TableCommands interface {
	CreateTable(ctx context.Context, params CreateTableParams) (*queries.TableView, error)
	UpdateTable(ctx context.Context, number int32, params UpdateTableParams) (*queries.TableView, error)
	DeleteTable(ctx context.Context, number int32) error
}

type tableCommandsImpl struct {
	uow          shared.UnitOfWork
	tableQueries queries.TableQueries
}

func NewTableCommands(uow shared.UnitOfWork, tableQueries queries.TableQueries) TableCommands {
	return &tableCommandsImpl{
		uow:          uow,
		tableQueries: tableQueries,
	}
}

func (c *tableCommandsImpl) CreateTable(ctx context.Context, params CreateTableParams) (*queries.TableView, error) {
	if err := table.ValidateNumber(params.Number); err != nil {
		return nil, errs.Mark(err, ErrInvalidTableNumber)
	}
	if !params.Status.IsValid() {
		return nil, errs.Mark(table.ErrInvalidStatus, ErrDomainValidation)
	}

	token, err := table.NewToken()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	number := int32(params.Number)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if insertErr := tx.Tables().Insert(ctx, number, params.Capacity, params.Status, token); insertErr != nil {
			if infra.IsKind(insertErr, infra.KindDuplicateKey) {
				return ErrDuplicateTableNumber
			}
			return errs.Mark(insertErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.tableQueries.GetByNumber(ctx, number)
}

// UpdateTable changes capacity/status; with ChangeToken it also rotates the
// access token and revokes every seated guest's session in the same
// transaction, so no guest keeps ordering against a stale token.
func (c *tableCommandsImpl) UpdateTable(ctx context.Context, number int32, params UpdateTableParams) (*queries.TableView, error) {
	if !params.Status.IsValid() {
		return nil, errs.Mark(table.ErrInvalidStatus, ErrDomainValidation)
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Tables().Update(ctx, number, params.Capacity, params.Status); updateErr != nil {
			if infra.IsKind(updateErr, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(updateErr, ErrDatabaseOperationFailed)
		}
		if !params.ChangeToken {
			return nil
		}

		token, tokenErr := table.NewToken()
		if tokenErr != nil {
			return errs.Mark(tokenErr, ErrDomainValidation)
		}
		if rotateErr := tx.Tables().RotateToken(ctx, number, token); rotateErr != nil {
			return errs.Mark(rotateErr, ErrDatabaseOperationFailed)
		}
		if revokeErr := tx.Guests().RevokeSessionsByTable(ctx, number); revokeErr != nil {
			return errs.Mark(revokeErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.tableQueries.GetByNumber(ctx, number)
}

func (c *tableCommandsImpl) DeleteTable(ctx context.Context, number int32) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Tables().Delete(ctx, number); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
