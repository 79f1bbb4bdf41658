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

	apphttp "github.com/activos-cl/patrimonio-api/internal/interfaces/http"
	pkgjwt "github.com/activos-cl/patrimonio-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret     = "test-secret-key-for-unit-tests"
	testUserID        = "00000000-0000-0000-0000-000000000001"
	testInstitutionID = "00000000-0000-0000-0000-000000000002"
	testEstID         = "00000000-0000-0000-0000-000000000003"
	testIssuer        = "patrimonio-api-test"
	testExpMin        = 60
)

// buildTestApp construye una app Fiber mínima con el AuthMiddleware y un
// handler que expone el actor resuelto.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		actor, ok := apphttp.GetActor(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		est := ""
		if actor.EstablishmentID != nil {
			est = *actor.EstablishmentID
		}
		return c.JSON(fiber.Map{
			"user_id":          actor.ID,
			"institution_id":   actor.InstitutionID,
			"establishment_id": est,
			"role":             actor.Role,
		})
	})
	return app
}

func tokenFor(t *testing.T, establishmentID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testInstitutionID, establishmentID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ResuelveActorDesdeClaims(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, tokenFor(t, testEstID, "ADMIN_ESTABLISHMENT"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testInstitutionID, body["institution_id"])
	assert.Equal(t, testEstID, body["establishment_id"])
	assert.Equal(t, "ADMIN_ESTABLISHMENT", body["role"])
}

// ADMIN_CENTRAL viaja sin claim de establecimiento: el actor queda sin
// establecimiento asignado, no con uno vacío.
func TestAuthMiddleware_CentralSinEstablecimiento(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, tokenFor(t, "", "ADMIN_CENTRAL"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body["establishment_id"])
	assert.Equal(t, "ADMIN_CENTRAL", body["role"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenMalformado_Retorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaConOtroSecret_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-distinto", testUserID, testInstitutionID, "", "ADMIN_CENTRAL", testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testInstitutionID, testEstID, "VIEWER", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testInstitutionID, claims.InstitutionID)
	assert.Equal(t, testEstID, claims.EstablishmentID)
	assert.Equal(t, "VIEWER", claims.Role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testInstitutionID, "", "VIEWER", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretVacio_RetornaError(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testInstitutionID, "", "VIEWER", testIssuer, testExpMin)
	assert.Error(t, err)
}
