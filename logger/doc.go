// Package logger provides zerolog-backed structured logging for the
// container module.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("bootstrap")
//	log.Info("database attached", logger.Fields("name", "primary"))
package logger
