package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demiirawo/cc-academy/models"
)

const testSecret = "test-secret"

func testUser(role string) *models.User {
	u := &models.User{
		Email: "alice@cc-academy.app",
		Role:  role,
	}
	u.ID = uuid.New()
	u.OrganisationID = uuid.New()
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	user := testUser(models.RoleManager)

	token, err := GenerateToken(testSecret, user, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.OrganisationID.String(), claims.OrganisationID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser(models.RoleStaff), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser(models.RoleStaff), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func authedApp(t *testing.T, extra ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	chain := append([]fiber.Handler{RequireAuth(testSecret)}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	app.Get("/protected", chain...)
	return app
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	app := authedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	app := authedApp(t)
	token, err := GenerateToken(testSecret, testUser(models.RoleStaff), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthAcceptsSessionCookie(t *testing.T) {
	app := authedApp(t)
	token, err := GenerateToken(testSecret, testUser(models.RoleStaff), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := authedApp(t, RequireRole(models.RoleAdmin, models.RoleManager))

	managerToken, err := GenerateToken(testSecret, testUser(models.RoleManager), time.Hour)
	require.NoError(t, err)
	staffToken, err := GenerateToken(testSecret, testUser(models.RoleStaff), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
