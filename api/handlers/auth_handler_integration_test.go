// api/handlers/auth_handler_integration_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/habitgrid-backend/api"
	"github.com/Annany2002/habitgrid-backend/api/middleware"
	"github.com/Annany2002/habitgrid-backend/api/models"
	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/auth"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

const testJWTSecret = "test_secret_key_for_integration_tests_1234567890"

// testToday is a Friday.
var testToday = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// testDBSetup creates a temporary SQLite DB for testing.
func testDBSetup(t *testing.T) (*storage.DB, *config.Config) {
	t.Helper()

	tempDir := t.TempDir()
	testCfg := &config.Config{
		ServerPort:         "0",
		JWTSecret:          testJWTSecret,
		JWTExpiration:      time.Minute * 5,
		DatabaseDriver:     config.DriverSQLite,
		MetadataDbDir:      tempDir,
		MetadataDbFile:     "test_habits.db",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		AuthRateLimit:      100,
	}

	db, err := storage.Connect(testCfg)
	require.NoError(t, err, "connecting to test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return db, testCfg
}

// setupTestServer creates a test server instance with a test DB and a pinned clock.
func setupTestServer(t *testing.T) (*httptest.Server, *storage.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cfg := testDBSetup(t)
	router := api.SetupRouter(db, cfg, core.FixedClock{At: testToday})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, db
}

// doJSON sends body (if any) as JSON with an optional bearer token.
func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

// signup registers a user and returns its token.
func signup(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()
	res := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
		Name: "Test User", Email: email, Password: "StrongPassword123!",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decode[models.SignupResponse](t, res).Token
}

// TestAuthEndpoints performs integration tests on /auth/signup and /auth/login.
func TestAuthEndpoints(t *testing.T) {
	server, db := setupTestServer(t)

	testEmail := "test.user@integration.com"
	testPassword := "StrongPassword123!"

	t.Run("Signup Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
			Name: "Test User", Email: testEmail, Password: testPassword,
		})
		assert.Equal(t, http.StatusCreated, res.StatusCode, "Expected status 201 Created")

		body := decode[models.SignupResponse](t, res)
		assert.Equal(t, "User registered successfully", body.Message)
		assert.NotEmpty(t, body.Token)

		user, err := storage.FindUserByEmail(context.Background(), db, testEmail)
		require.NoError(t, err, "Finding user after signup should not fail")
		assert.Equal(t, body.UserID, user.ID)
		assert.True(t, auth.CheckPasswordHash(testPassword, user.PasswordHash), "Stored password hash should match")

		var cookie *http.Cookie
		for _, ck := range res.Cookies() {
			if ck.Name == middleware.AuthCookieName {
				cookie = ck
			}
		}
		require.NotNil(t, cookie, "signup should set the auth cookie")
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("Signup Conflict (Duplicate Email)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
			Name: "Other", Email: testEmail, Password: "anotherPassword",
		})
		assert.Equal(t, http.StatusConflict, res.StatusCode, "Expected status 409 Conflict")
	})

	t.Run("Signup Bad Request (Invalid Email Format)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
			Name: "Bad", Email: "invalid-email-format", Password: testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Signup Bad Request (Short Password)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
			Name: "Short", Email: "shortpass@example.com", Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Signup Bad Request (Malformed JSON)", func(t *testing.T) {
		res, err := http.Post(server.URL+"/auth/signup", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Login Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{Email: testEmail, Password: testPassword})
		assert.Equal(t, http.StatusOK, res.StatusCode, "Expected status 200 OK")

		body := decode[models.LoginResponse](t, res)
		assert.Equal(t, "Login successful", body.Message)
		assert.Equal(t, testEmail, body.User.Email)
		assert.Equal(t, core.ViewModeYear, body.User.ViewMode)

		identity, err := auth.ValidateJWT(body.Token, testJWTSecret)
		assert.NoError(t, err, "Returned token should be valid")
		assert.Equal(t, body.User.ID, identity.UserID)
		assert.Equal(t, testEmail, identity.Email)
	})

	t.Run("Login Unauthorized (Wrong Password)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{Email: testEmail, Password: "IncorrectPassword"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Login Unauthorized (User Not Found)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{Email: "nosuchuser@example.com", Password: "anyPassword"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "unknown email must not be distinguishable from a bad password")
	})
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	res := doJSON(t, http.MethodGet, server.URL+"/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = doJSON(t, http.MethodGet, server.URL+"/api/v1/habits", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	foreign, err := auth.GenerateJWT(auth.Identity{UserID: "ghost", Email: "ghost@example.com"}, testJWTSecret, time.Minute)
	require.NoError(t, err)
	res = doJSON(t, http.MethodGet, server.URL+"/api/v1/me", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "tokens for unknown users must be rejected")
}

func TestCookieAuthAndLogout(t *testing.T) {
	server, _ := setupTestServer(t)
	token := signup(t, server, "cookie@example.com")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	logout := doJSON(t, http.MethodPost, server.URL+"/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, logout.StatusCode)
	for _, ck := range logout.Cookies() {
		if ck.Name == middleware.AuthCookieName {
			assert.Empty(t, ck.Value)
			assert.Less(t, ck.MaxAge, 0)
		}
	}
}

func TestProfileEndpoints(t *testing.T) {
	server, _ := setupTestServer(t)
	token := signup(t, server, "profile@example.com")

	res := doJSON(t, http.MethodPatch, server.URL+"/api/v1/me", token, map[string]any{
		"name": "Renamed", "avatar_url": "https://cdn.example.com/a.png",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decode[map[string]any](t, res)
	assert.Equal(t, "Renamed", body["name"])
	assert.Equal(t, "https://cdn.example.com/a.png", body["avatar_url"])

	res = doJSON(t, http.MethodPatch, server.URL+"/api/v1/me", token, map[string]any{"avatar_url": "ftp://nope"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = doJSON(t, http.MethodPut, server.URL+"/api/v1/me/view-mode", token, models.ViewModeRequest{ViewMode: "month"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "month", decode[map[string]any](t, res)["view_mode"])

	res = doJSON(t, http.MethodPut, server.URL+"/api/v1/me/view-mode", token, models.ViewModeRequest{ViewMode: "week"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, cfg := testDBSetup(t)
	cfg.AuthRateLimit = 2
	server := httptest.NewServer(api.SetupRouter(db, cfg, core.FixedClock{At: testToday}))
	defer server.Close()

	login := models.LoginRequest{Email: "rate@example.com", Password: "whatever1"}
	for i := 0; i < 2; i++ {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
	res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
