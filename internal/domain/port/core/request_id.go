package core

import "context"

type requestIDKey struct{}

// ContextWithRequestID attaches the request ID so adapters below the HTTP
// layer can correlate their logs with the request.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID or an empty string
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
