package app

import (
	"time"

	"github.com/permadocs/permapay/internal/app/api/server"
	"github.com/permadocs/permapay/internal/app/service/eventlog"
	"github.com/permadocs/permapay/internal/app/service/payment"
	"github.com/permadocs/permapay/internal/app/service/pricing"
	"github.com/permadocs/permapay/internal/app/service/settlement"
	"github.com/permadocs/permapay/internal/app/service/statistics"
	"github.com/permadocs/permapay/internal/platform/db"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	pricing.Module,
	eventlog.Module,
	settlement.Module,
	payment.Module,
	statistics.Module,
)
