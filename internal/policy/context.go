package policy

import "context"

type ctxKey struct{}

// WithActor stores the authenticated actor on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil || actor.Anonymous() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFromContext returns the actor stored on the context, or the anonymous
// actor when the request carried no credentials.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	if actor, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return actor
	}
	return Actor{}
}
