package pricing

import "go.uber.org/fx"

// Module exposes the pricing oracle and cost calculator via Fx.
var Module = fx.Options(
	fx.Provide(NewOracle),
	fx.Provide(NewCalculator),
)
