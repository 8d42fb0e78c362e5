// Package logging provides structured logging utilities for kubedeck.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "resource.list")
//	logger.Info("listing resources",
//	    logging.Namespace("default"),
//	    logging.ResourceKind("Pods"))
//
// # Security Considerations
//
// API server URLs have IP addresses redacted to prevent network topology
// leakage; credentials and tokens are never logged directly.
package logging
