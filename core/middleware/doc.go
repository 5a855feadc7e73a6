// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation for operator endpoints.
//   - rayid: a request id injected into locals and response headers.
package middleware
