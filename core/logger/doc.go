// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds loggers from functional options, and the attribute helpers cover
// the fields the messaging packages log.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/relay/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("relay"))
//
//	// Production: JSON format, info level
//	log := logger.New(
//		logger.WithProduction("relay"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("bus started",
//		logger.Component("bus"),
//		logger.Strategy("round_robin"),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// passed unconditionally:
//
//	log.Debug("receiver disposed",
//		logger.Subscription(sub.ID()),
//		logger.Receivers(s.Count()),
//		logger.Error(err), // omitted when err is nil
//	)
//
// # Disabling Logging
//
// Components accepting a *slog.Logger default to a discard logger. Discard
// returns the same logger for explicit use.
package logger
