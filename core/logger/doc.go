// Package logger provides a structured logging facility based on Zap.
//
// The logger follows the configured level and encoding (json for
// production, console for operators at a terminal). WithRayID attaches the
// request id of a Fiber context and WithSeason tags sync logs with the
// season being processed.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
package logger
