// Package server wires the cluster access layer to the desktop UI: an HTTP
// API for commands and queries plus a WebSocket feed for watch events and
// terminal output.
//
// ServerContext carries the shared dependencies (connection provider, watch
// manager, terminal manager, event bus) and is assembled with functional
// options:
//
//	sc, err := server.NewServerContext(ctx,
//	    server.WithProvider(provider),
//	    server.WithLogger(logger),
//	)
package server
