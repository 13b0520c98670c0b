package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/co2tracker/co2tracker/internal/auth"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TokenValidator resolves a bearer token to the user UID it was issued for.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserLookup loads the user a token belongs to.
type UserLookup interface {
	GetUserByUid(ctx context.Context, uid string) (user.User, error)
}

// publicRoutes are reachable without a token.
var publicRoutes = map[string]bool{
	"/api/user/register":          true,
	"/api/user/login":             true,
	"/api/user/name-availability": true,
	"/api/catalog":                true,
	"/api/global-co2":             true,
	"/api/leaderboard":            true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	r.Use(authMiddleware(deps.Tokens, deps.UserService))
}

// authMiddleware puts the user of a valid "Authorization: Bearer" token into the request context.
// Requests to protected routes without a valid token are rejected with 401.
func authMiddleware(tokens TokenValidator, users UserLookup) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			public := isPublic(req)
			ctx := req.Context()

			header := req.Header.Get("Authorization")
			if header == "" {
				if !public {
					log.Debugf("Missing token for %s", req.URL.Path)
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, req)
				return
			}

			token, ok := auth.BearerToken(header)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			uid, err := tokens.Validate(token)
			if err != nil {
				log.Debugf("Invalid token: %v", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := users.GetUserByUid(ctx, uid)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("user not found: %s", uid)
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				log.Errorf("failed to get user: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			log.Tracef("user found: %s", u.Uid)
			next.ServeHTTP(w, req.WithContext(user.WithUser(ctx, u)))
		})
	}
}

func isPublic(req *http.Request) bool {
	route := mux.CurrentRoute(req)
	if route == nil {
		return false
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return false
	}
	return publicRoutes[template]
}
