package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/internal/config"
	"foodgram/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns the defaults pointed at a private in-memory SQLite
// database and a temporary media directory, with no broker.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("DATABASE_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("MEDIA_DIR", t.TempDir())

	cfg := config.FromViper(v)
	require.NoError(t, cfg.Validate())
	return cfg
}

func get(t *testing.T, app interface {
	Test(*http.Request, ...int) (*http.Response, error)
}, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNewApp(t *testing.T) {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})

	app, cleanup, err := NewApp(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	t.Run("HealthCheck", func(t *testing.T) {
		status, body := get(t, app, "/health")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `"status":"healthy"`)
		assert.Contains(t, body, `"events":false`)
	})

	t.Run("PublicCatalog", func(t *testing.T) {
		status, body := get(t, app, "/api/tags")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, body)
	})

	t.Run("EmptyRecipeListing", func(t *testing.T) {
		status, body := get(t, app, "/api/recipes")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, body)
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		status, _ := get(t, app, "/api/users/me")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("Metrics", func(t *testing.T) {
		status, body := get(t, app, "/metrics")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "foodgram_http_requests_total")
	})
}

func TestNewAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "mysql"

	_, cleanup, err := NewApp(cfg)
	require.Error(t, err)
	cleanup()
}
