package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/Gokulkannan3/stock-manager/internal/interfaces/http"
	pkgjwt "github.com/Gokulkannan3/stock-manager/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "stock-manager-test"
	testExpMin    = 60
)

func buildActorApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", apphttp.ActorMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"actor": apphttp.GetActor(c)})
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, authHeader string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["actor"]
}

func TestActorMiddleware_ResolvesActorFromToken(t *testing.T) {
	app := buildActorApp(testJWTSecret)

	tok, err := pkgjwt.Generate(testJWTSecret, "priya", testIssuer, testExpMin)
	require.NoError(t, err)

	assert.Equal(t, "priya", whoami(t, app, "Bearer "+tok))
}

func TestActorMiddleware_NoTokenProceedsAnonymously(t *testing.T) {
	app := buildActorApp(testJWTSecret)
	assert.Equal(t, "", whoami(t, app, ""))
}

func TestActorMiddleware_InvalidTokenProceedsAnonymously(t *testing.T) {
	app := buildActorApp(testJWTSecret)
	assert.Equal(t, "", whoami(t, app, "Bearer not.a.token"))
}

func TestActorMiddleware_NoSecretConfigured(t *testing.T) {
	app := buildActorApp("")

	tok, err := pkgjwt.Generate(testJWTSecret, "priya", testIssuer, testExpMin)
	require.NoError(t, err)

	assert.Equal(t, "", whoami(t, app, "Bearer "+tok))
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "ravi", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	actor, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "ravi", actor)
}

func TestJWT_ExpiredTokenFails(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "ravi", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_WrongSecretFails(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "ravi", testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("a-completely-different-secret", tok)
	assert.Error(t, err)
}
