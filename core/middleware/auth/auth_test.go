package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(New(Config{ApiKey: apiKey}))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestAuth_ValidKey(t *testing.T) {
	app := setupApp("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Api-Key", "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuth_InvalidKey(t *testing.T) {
	app := setupApp("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Api-Key", "guess")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuth_MissingKey(t *testing.T) {
	app := setupApp("secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuth_DisabledWhenUnconfigured(t *testing.T) {
	app := setupApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
