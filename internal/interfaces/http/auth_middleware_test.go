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

	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
)

// buildAuthApp construye una aplicación Fiber mínima con AuthMiddleware + RequireRole
// y un handler que devuelve 200 si pasa los middlewares.
func buildAuthApp(allowedRoles ...string) *fiber.App {
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

// tokenForRole genera un JWT del tenant de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, pkgjwt.RoleAdmin, body["role"])
}

func TestRequireRole_BodegueroEnRutaMultiRol(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero)
	resp := getProtected(t, app, tokenForRole(t, pkgjwt.RoleBodeguero))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CompradorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, tokenForRole(t, pkgjwt.RoleComprador))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_SinRolesPermitidosAceptaCualquierRol(t *testing.T) {
	app := buildAuthApp()
	resp := getProtected(t, app, tokenForRole(t, "auditor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Token legacy sin claim de rol → 401 MISSING_ROLE.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := getProtected(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenSinTenant_Retorna401(t *testing.T) {
	app := buildAuthApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := getProtected(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracción de claims
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"tenant_id": apphttp.GetTenantID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, pkgjwt.RoleAdmin, body["role"])
}
