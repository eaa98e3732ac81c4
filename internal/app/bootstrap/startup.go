// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratarent/internal/app/store/audit"
	bookingstore "github.com/dalemusser/stratarent/internal/app/store/bookings"
	"github.com/dalemusser/stratarent/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served. It starts the
// background maintenance jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	taskRunner = newTaskRunner(appCfg, deps, logger)
	taskRunner.Start()
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// newTaskRunner registers the jobs enabled by configuration.
func newTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *tasks.Runner {
	runner := tasks.New(logger)

	if appCfg.BookingAutoComplete {
		runner.Register(tasks.BookingCompletionJob(bookingstore.New(deps.MongoDatabase), logger))
	}
	if appCfg.AuditRetention > 0 {
		runner.Register(tasks.AuditRetentionJob(audit.New(deps.MongoDatabase), appCfg.AuditRetention, logger))
	}

	return runner
}
