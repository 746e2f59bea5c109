// File: utils/constants.go
package utils

// RequestIDHeader carries the per-request ID in and out of the API.
const RequestIDHeader = "X-Request-ID"

// ContextLoggerKey is where middleware stores the request-scoped zap logger.
const ContextLoggerKey = "logger"
