package middleware

import (
	"context"
	"net/http"
)

// actorContextKey is the type for actor context keys
type actorContextKey string

const actorKey actorContextKey = "actor_id"

// ActorHeader carries the opaque actor identifier supplied by the caller.
// The core does not validate or resolve it; authentication lives in front
// of this service.
const ActorHeader = "X-Actor-Id"

// Actor extracts the caller-supplied actor identifier into the request
// context. Requests without one proceed with an empty actor; mutating
// handlers decide whether that is acceptable.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := r.Header.Get(ActorHeader)
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the actor identifier stored by Actor, or "".
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey).(string)
	return actor
}
