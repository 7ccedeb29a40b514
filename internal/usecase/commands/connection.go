package commands

import (
	"context"

	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

// ConnectionCommands maintains the subject -> live connection binding used for
// fanout addressing. The registry is not authoritative state; the socket
// gateway re-registers on every connect.
type ConnectionCommands interface {
	Register(ctx context.Context, subjectID uuid.UUID, connectionID string) error
}

type connectionCommandsImpl struct {
	connections shared.ConnectionRepository
}

func NewConnectionCommands(connections shared.ConnectionRepository) ConnectionCommands {
	return &connectionCommandsImpl{connections: connections}
}

func (c *connectionCommandsImpl) Register(ctx context.Context, subjectID uuid.UUID, connectionID string) error {
	if connectionID == "" {
		return errs.Mark(errs.New("connection id is empty"), ErrDomainValidation)
	}
	if err := c.connections.Upsert(ctx, subjectID, connectionID); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
