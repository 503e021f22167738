package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-inventario/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Ana Bodega"
	testIssuer    = "pos-inventario-test"
	testExpMin    = 60
)

// buildRoleApp aplicación mínima con AuthMiddleware + RequireRole y un handler dummy.
func buildRoleApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

// buildPermissionApp igual que buildRoleApp pero autorizando por permiso.
func buildPermissionApp(permission string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(permission),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true})
		},
	)
	return app
}

func bearer(t *testing.T, role string, permissions ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{
		UserID:      testUserID,
		Name:        testUserName,
		Role:        role,
		Permissions: permissions,
	}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload), string(body))
	return payload.Error
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), bearer(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_BodegueroAccedeRutaAdminOBodeguero(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin", "bodeguero"), bearer(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), bearer(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), bearer(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, errorCode(t, resp))
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, errorCode(t, resp))
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_EsquemaDistintoDeBearer_Retorna401(t *testing.T) {
	resp := doGet(t, buildRoleApp("admin"), "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", pkgjwt.Identity{UserID: testUserID, Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doGet(t, buildRoleApp("admin"), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_ConPermiso_Pasa(t *testing.T) {
	resp := doGet(t, buildPermissionApp("create:venta"), bearer(t, "vendedor", "read:producto", "create:venta"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinPermiso_Retorna403(t *testing.T) {
	resp := doGet(t, buildPermissionApp("delete:compra"), bearer(t, "vendedor", "create:venta"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
}

func TestRequirePermission_AdminTieneTodos(t *testing.T) {
	resp := doGet(t, buildPermissionApp("delete:compra"), bearer(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: identidad en locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"name":        actor.Name,
			"role":        apphttp.GetRole(c),
			"permissions": apphttp.GetPermissions(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, "bodeguero", "create:compra"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID      string   `json:"user_id"`
		Name        string   `json:"name"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testUserName, body.Name)
	assert.Equal(t, "bodeguero", body.Role)
	assert.Equal(t, []string{"create:compra"}, body.Permissions)
}
