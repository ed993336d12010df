// Package logger configures application logging and observability.
//
// It builds the zerolog root logger (console for local, JSON elsewhere,
// optionally forwarded to New Relic), owns the New Relic application
// lifecycle, and provides the adapters that let pgx trace SQL through
// zerolog.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/rohithvarma444/amEx-sub001/internal/config"
)

// LoggerService owns the New Relic application instance. When New Relic is
// not configured the service still exists but carries a nil application, and
// everything downstream degrades to no-ops.
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	return s.nrApp
}

// Shutdown flushes buffered telemetry. Safe to call with New Relic disabled.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s.nrApp != nil {
		s.nrApp.Shutdown(timeout)
	}
}

// New constructs the root logger and the observability service from config.
//
// Console format is used when configured (local development); otherwise the
// logger emits JSON, wrapped by the New Relic zerolog writer when log
// forwarding is on so log lines carry trace linking metadata.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	service := &LoggerService{}

	obs := cfg.Observability
	if obs.NewRelic.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
		}
		if obs.NewRelic.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
		}

		nrApp, err := newrelic.NewApplication(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize new relic application: %w", err)
		}
		service.nrApp = nrApp
	}

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	switch {
	case obs.Logging.Format == "console":
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	case service.nrApp != nil && obs.NewRelic.AppLogForwardingEnabled:
		log = zerolog.New(zerologWriter.New(os.Stdout, service.nrApp))
	default:
		log = zerolog.New(os.Stdout)
	}

	log = log.Level(level).With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &log, service, nil
}

// WithTraceContext attaches trace.id and span.id from the transaction so log
// lines correlate with distributed traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return log
	}

	md := txn.GetTraceMetadata()
	builder := log.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}

// NewPgxLogger builds the logger handed to the pgx tracelog adapter. SQL
// logging is console-formatted since it only runs in local environments.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps the zerolog level to the pgx tracelog level so
// SQL verbosity follows the application's configured verbosity.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
