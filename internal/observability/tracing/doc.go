// Package tracing wires OpenTelemetry into the HTTP server.
//
//	shutdown := tracing.Init("privatelives", version)
//	defer shutdown(context.Background())
//	handler = tracing.Middleware(handler)
package tracing
