// Package server holds the operator HTTP server configuration.
//
// The server exposes manual sync triggers, identity lookups and metrics.
// It is started by the start command alongside the sync timer.
package server
