package session

import "context"

type ctxKey struct{}

// NewContext returns a context carrying the session state.
func NewContext(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session state from ctx, or false if absent.
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(ctxKey{}).(*State)
	return s, ok
}
