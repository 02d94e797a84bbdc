package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"

	"github.com/nextpos/printing/internal/infrastructure/config"
)

// DBTracingPlugin returns the otelgorm plugin for the settings store, or nil
// when query tracing is off. Query variables are never attached to spans.
func DBTracingPlugin(tel config.TelemetryConfig, db config.DatabaseConfig) gorm.Plugin {
	if !tel.Enabled || !tel.DBTraceEnabled {
		return nil
	}
	system := "sqlite"
	if db.Driver == config.DriverPostgres {
		system = "postgresql"
	}
	return otelgorm.NewPlugin(
		otelgorm.WithDBName(system),
		otelgorm.WithoutQueryVariables(),
	)
}
