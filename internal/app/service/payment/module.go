package payment

import "go.uber.org/fx"

// Module exposes the payment workflow via Fx.
var Module = fx.Options(
	fx.Provide(NewGormStore),
	fx.Provide(NewFactory),
	fx.Provide(NewWatcher),
	fx.Provide(NewService),
	fx.Provide(NewSweeper),
	fx.Invoke(func(*Sweeper) {}),
)
