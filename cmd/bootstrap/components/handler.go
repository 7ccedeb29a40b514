package components

import (
	"tableside/internal/handler"
	"tableside/internal/handler/api"
	"tableside/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewPaymentHandler,
		api.NewTableHandler,
		api.NewIndicatorHandler,
		api.NewConnectionHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
