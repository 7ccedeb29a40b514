package components

import (
	"tableside/internal/infra/db"
	"tableside/internal/infra/gateway"
	"tableside/internal/infra/readstore"
	"tableside/internal/infra/realtime"
	"tableside/internal/infra/repository"
	"tableside/internal/infra/uow"
	"tableside/internal/notify"
	"tableside/internal/pkg/clock"
	"tableside/internal/pkg/config"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,

		// Read-side stores for queries
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			readstore.NewDishReadStore,
			fx.As(new(queries.DishViewRepo)),
		),
		fx.Annotate(
			readstore.NewTableReadStore,
			fx.As(new(queries.TableViewRepo)),
		),

		fx.Annotate(
			readstore.NewNotificationReadStore,
			fx.As(new(queries.NotificationViewRepo)),
		),

		// Connection registry writes go straight through the pool, no transaction.
		fx.Annotate(
			repository.NewConnectionRepository,
			fx.As(new(shared.ConnectionRepository)),
		),

		// Pool-backed recorder for the fanout dispatcher's feed rows.
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(notify.Recorder)),
		),

		// Payment gateway client
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(commands.PaymentGateway)),
		),

		// Realtime fanout
		fx.Annotate(
			realtime.NewRedisEmitter,
			fx.As(new(notify.Emitter)),
		),
		NewNotifier,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewGatewayClient(cfg config.Config, clk clock.Clock) *gateway.Client {
	return gateway.NewClient(cfg.Gateway, clk)
}

func NewNotifier(lc fx.Lifecycle, emitter notify.Emitter, recorder notify.Recorder) *notify.Notifier {
	notifier := notify.NewNotifier(emitter, recorder)

	lc.Append(fx.StartStopHook(
		func() { notifier.Start() },
		func() { notifier.Stop() },
	))

	return notifier
}
