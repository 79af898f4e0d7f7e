package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"

	"github.com/oakridge-sis/secure-sync-server/pkg/web/middleware/context_keys"
	"github.com/oakridge-sis/secure-sync-server/pkg/web/testutils"
)

const testJwtSecret = "test-operator-secret"

func authTestHandler(t *testing.T, wantOperator, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantOperator, r.Context().Value(context_keys.OperatorContextKey))
		assert.Equal(t, wantRole, r.Context().Value(context_keys.RoleContextKey))
		w.WriteHeader(http.StatusOK)
	})
}

func TestConfigureAuth(t *testing.T) {
	t.Setenv("OPERATOR_JWT_SECRET", testJwtSecret)
	injector := do.New()
	do.Provide(injector, NewOperatorKeyService)

	t.Run("valid token with allowed role", func(t *testing.T) {
		signed, err := testutils.SignOperatorToken("registrar@oakridge", "sync-admin", testJwtSecret)
		assert.NoError(t, err)

		handler := ConfigureAuth(injector, "sync-admin")(authTestHandler(t, "registrar@oakridge", "sync-admin"))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := ConfigureAuth(injector, "sync-admin")(authTestHandler(t, "", ""))
		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		handler := ConfigureAuth(injector, "sync-admin")(authTestHandler(t, "", ""))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		signed, err := testutils.SignOperatorToken("registrar@oakridge", "sync-admin", "wrong-secret")
		assert.NoError(t, err)

		handler := ConfigureAuth(injector, "sync-admin")(authTestHandler(t, "", ""))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		signed, err := testutils.SignOperatorToken("teacher@oakridge", "teacher", testJwtSecret)
		assert.NoError(t, err)

		handler := ConfigureAuth(injector, "sync-admin", "registrar")(authTestHandler(t, "", ""))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("second allowed role accepted", func(t *testing.T) {
		signed, err := testutils.SignOperatorToken("registrar@oakridge", "registrar", testJwtSecret)
		assert.NoError(t, err)

		handler := ConfigureAuth(injector, "sync-admin", "registrar")(authTestHandler(t, "registrar@oakridge", "registrar"))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOperatorKeyRequiresSecret(t *testing.T) {
	t.Setenv("OPERATOR_JWT_SECRET", "")
	injector := do.New()
	do.Provide(injector, NewOperatorKeyService)

	_, err := do.Invoke[OperatorKey](injector)
	assert.Error(t, err)
}
