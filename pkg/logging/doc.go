// Package logging configures the operational logger of mockd-jsonlog.
//
// Operational logs (server lifecycle, stub loading, listener panics) go
// through log/slog. The per-exchange NDJSON records written by package jsonlog
// are a separate stream and never pass through slog.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("server started", "port", 8080)
//
// Components accept a *slog.Logger through an option or setter and fall back
// to logging.Nop().
package logging
