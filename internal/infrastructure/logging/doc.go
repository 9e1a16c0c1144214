// Package logging provides structured logging for Point Relay.
//
// It wraps the standard library's log/slog with configuration-driven setup
// (level, format, destination) and default attributes identifying the service
// and build version.
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("relay started", "routes", len(cfg.Relay.Routes))
//
// Use Default() only during early startup, before configuration is loaded.
package logging
