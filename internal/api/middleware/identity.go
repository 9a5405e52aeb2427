package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

const scopeKey contextKey = "scope"

// Resolver turns an inbound request into the caller's auction-event scope.
// The default HeaderResolver trusts the gateway's headers; deployments doing
// their own authentication plug in a different one.
type Resolver func(r *http.Request) (store.Scope, error)

// HeaderResolver reads X-Auction-Event (required UUID) and X-Role
// (defaults to admin).
func HeaderResolver(r *http.Request) (store.Scope, error) {
	raw := r.Header.Get("X-Auction-Event")
	if raw == "" {
		return store.Scope{}, fmt.Errorf("missing X-Auction-Event header")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return store.Scope{}, fmt.Errorf("parsing X-Auction-Event: %w", err)
	}
	role := r.Header.Get("X-Role")
	if role == "" {
		role = "admin"
	}
	return store.Scope{AuctionEventID: id, Role: role}, nil
}

// Identity resolves the caller's scope and stores it in the context.
// Requests that cannot be scoped are rejected with 401.
func Identity(resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			scope, err := resolve(r)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED",
					"A valid X-Auction-Event header is required", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), scopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetScope retrieves the resolved scope from the request context.
func GetScope(ctx context.Context) (store.Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(store.Scope)
	return scope, ok
}

// RequireRole gates endpoints that act before any event scope exists, such
// as auction provisioning. The role comes from X-Role under the same trust
// model as HeaderResolver: the gateway sets it, absent means admin.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Role")
			if got == "" {
				got = "admin"
			}
			if got != role {
				response.Err(w, http.StatusForbidden, "FORBIDDEN",
					"The caller's role does not permit this operation", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
