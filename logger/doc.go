// Package logger provides structured logging for clientkit using zerolog.
//
// It supports JSON and console output, component-scoped loggers with
// structured fields, and the request logging verbosity levels consumed by
// generated clients.
//
// # Usage
//
//	log := logger.NewDefault("orders-client")
//	log.Info("client assembled", logger.Fields("target", "http://orders"))
package logger
