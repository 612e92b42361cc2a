package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/middleware"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// ────────────────────────────────────────────────────────────────────────────
// Shared fixtures
// ────────────────────────────────────────────────────────────────────────────

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "handler-test-secret",
		JWTExpiry:       config.Duration(time.Hour),
		BcryptCost:      bcrypt.MinCost,
		CatalogCacheTTL: config.Duration(time.Minute),
	}
}

func claimsFor(user *model.User) *service.Claims {
	perms := model.PermissionsFor(user.Role)
	strs := make([]string, len(perms))
	for i, p := range perms {
		strs[i] = string(p)
	}
	return &service.Claims{
		UserID:      user.ID.Hex(),
		Role:        user.Role,
		Permissions: strs,
	}
}

// asUser injects the claims the JWT middleware would have set, so
// handlers can be exercised without minting real tokens. Token parsing
// itself is covered by the middleware tests.
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, claimsFor(user))
	}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// ────────────────────────────────────────────────────────────────────────────
// Request and response helpers
// ────────────────────────────────────────────────────────────────────────────

func perform(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func errCodeOf(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error, "expected an error body, got %s", w.Body.String())
	return env.Error.Code
}

// dataField unmarshals one named key out of the data wrapper, e.g. the
// "user" in {"data": {"user": {...}}}.
func dataField(t *testing.T, w *httptest.ResponseRecorder, key string, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	raw, ok := data[key]
	require.True(t, ok, "data key %q missing in %s", key, w.Body.String())
	require.NoError(t, json.Unmarshal(raw, dst))
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
