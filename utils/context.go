package utils

type contextKey string

// RequestIDKey carries the per-request correlation id through the context.
const RequestIDKey = contextKey("requestID")
