// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the internal application services, translating HTTP concerns to
// business operations. The realtime websocket surface lives separately in
// internal/realtime; this package covers the REST endpoints.
package api
