package contracts

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"natsumin/feature/sheets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (h *harness) app() *fiber.App {
	app := fiber.New()
	NewHandler(h.engine, h.service(), zap.NewNop()).RegisterRoutes(app)
	return app
}

func request(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestHandleSync(t *testing.T) {
	h := newHarness(t, fullSheet())
	app := h.app()

	code, body := request(t, app, "POST", "/sync/season_x")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "season_x", body["season"])
	assert.NotZero(t, body["inserted"])

	code, body = request(t, app, "GET", "/sync/status")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "COMMITTED", body["state"])
	assert.NotNil(t, body["last_result"])
}

func TestHandleSync_Errors(t *testing.T) {
	h := newHarness(t, nil)
	app := h.app()

	code, body := request(t, app, "POST", "/sync/season_y")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Contains(t, body["error"], "unknown season")

	h.fetcher.err = &sheets.FetchError{StatusCode: 500, Body: "boom"}
	code, _ = request(t, app, "POST", "/sync/season_x")
	assert.Equal(t, fiber.StatusBadGateway, code)

	code, body = request(t, app, "GET", "/sync/status")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "FAILED", body["state"])
}

func TestHandleSeasons(t *testing.T) {
	h := newHarness(t, fullSheet())
	h.run(t)
	app := h.app()

	code, body := request(t, app, "GET", "/seasons")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "season_x", body["active"])
	assert.Len(t, body["seasons"], 1)

	code, body = request(t, app, "GET", "/seasons/season_x/summary")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "season_x", body["season"])

	code, _ = request(t, app, "GET", "/seasons/season_y/summary")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestHandleUsers(t *testing.T) {
	h := newHarness(t, fullSheet())
	h.run(t)
	app := h.app()

	code, body := request(t, app, "GET", "/users/alice/resolve")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "exact", body["match"])

	code, _ = request(t, app, "GET", "/users/zzzzzz/resolve")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body = request(t, app, "GET", "/users/alice/contracts")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "season_x", body["season"])
	assert.NotEmpty(t, body["groups"])

	code, _ = request(t, app, "GET", "/users/alice/contracts?season=season_y")
	assert.Equal(t, fiber.StatusNotFound, code)
}
