package reqid

import "context"

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Set returns a new context carrying the given request correlation ID.
func Set(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Get retrieves the request correlation ID from the context.
// Returns the ID and true if present, otherwise empty and false.
func Get(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
