package components

import (
	"tableside/internal/pkg/clock"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewTableQueries,
		queries.NewIndicatorQueries,
		queries.NewNotificationQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderCommands,
		commands.NewSettlementCommands,
		commands.NewGatewayCommands,
		commands.NewTableCommands,
		commands.NewConnectionCommands,
		commands.NewNotificationCommands,
	),
)
