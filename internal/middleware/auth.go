package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=middleware_mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(tokenString string) (*auth.Principal, error)
}

type AuthMiddlewareHandler struct {
	verifier tokenVerifier
	// public paths, by method
	allowedPaths         map[string]map[string]bool
	allowedPathsPrefixes map[string][]string
	// prefixes that stay protected even under a public prefix
	protectedPrefixes []string
}

func NewAuthMiddlewareHandler(verifier tokenVerifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier: verifier,
		allowedPaths: map[string]map[string]bool{
			http.MethodGet: {
				"/health":    true,
				"/exercises": true,
				"/programs":  true,
			},
			http.MethodPost: {
				"/users/register": true,
			},
		},
		allowedPathsPrefixes: map[string][]string{
			http.MethodGet: {
				"/exercises/",
				"/programs/",
			},
		},
		protectedPrefixes: []string{
			"/programs/enrollments",
			"/programs/current",
			"/programs/today",
			"/programs/stats",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(method, path string) bool {
	if h.allowedPaths[method][path] {
		return true
	}
	for _, prefix := range h.protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	for _, prefix := range h.allowedPathsPrefixes[method] {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthCheck verifies the bearer token and stores the principal in the request context.
// Public paths pass without a token, but a token that is sent must be valid.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			public := h.pathIsAlwaysAllowed(r.Method, r.URL.Path)
			token := bearerToken(r)
			if token == "" {
				if public {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-auth-token")
				apperr.WriteHTTP(w, r, auth.ErrNotAuthenticated)
				return
			}

			principal, err := h.verifier.Verify(token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrMissingToken) {
					log.Errorf("[failed token check] => %s: %s", r.URL.Path, err)
				}
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "invalid-token")
				span.RecordError(err)
				apperr.WriteHTTP(w, r, apperr.Unauthenticated("invalid or expired token"))
				return
			}

			span.SetAttributes(attribute.String("user.id", principal.UserID.String()))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, principal)))
		})
	}
}
