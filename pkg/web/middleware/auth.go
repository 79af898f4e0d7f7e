package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"regexp"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/oakridge-sis/secure-sync-server/pkg/web/middleware/context_keys"
)

var bearerPattern = regexp.MustCompile(`Bearer (.*)`)

// OperatorKey is the shared HMAC secret operator tokens are signed with.
type OperatorKey []byte

// NewOperatorKeyService refuses to start without a secret so tokens are never
// verified against an empty key.
func NewOperatorKeyService(i *do.Injector) (OperatorKey, error) {
	secret := os.Getenv("OPERATOR_JWT_SECRET")
	if secret == "" {
		return nil, errors.New("OPERATOR_JWT_SECRET must be set")
	}
	return OperatorKey(secret), nil
}

// ConfigureAuth verifies the operator JWT (HS256, shared secret) and requires
// one of the allowed roles. The sync subsystem is operator-facing only;
// devices authenticate with certificates at the transport layer, outside this
// process.
func ConfigureAuth(i *do.Injector, allowedRoles ...string) func(http.Handler) http.Handler {
	key := do.MustInvoke[OperatorKey](i)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			submatches := bearerPattern.FindStringSubmatch(authHeader)
			if len(submatches) < 2 || submatches[1] == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			tokenString := submatches[1]
			token, err := jwt.ParseString(tokenString, jwt.WithKey(jwa.HS256, []byte(key)))
			if err != nil {
				log.Debug().Err(err).Msg("rejected operator token")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			operator := token.Subject()
			role, _ := token.PrivateClaims()["role"].(string)
			if operator == "" || role == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if len(allowedRoles) > 0 && !lo.Contains(allowedRoles, role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), context_keys.OperatorContextKey, operator)
			ctx = context.WithValue(ctx, context_keys.RoleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
