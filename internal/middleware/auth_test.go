package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skill-backend/internal/auth"
	"skill-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSetup() (*AuthMiddleware, *auth.JWTManager) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "skill-backend"
	cfg.Venues = []config.VenueConfig{
		{Code: "CCCR", Name: "Centro de Convenciones", IDData: "id-cccr"},
	}
	mgr := auth.NewJWTManager(cfg)
	return NewAuthMiddleware(mgr, cfg), mgr
}

func TestAuthenticateValidToken(t *testing.T) {
	mw, mgr := testSetup()
	token, err := mgr.GenerateToken("mrojas", "upstream-token")
	require.NoError(t, err)

	var gotUsername string
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = GetUsernameFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mrojas", gotUsername)
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	mw, _ := testSetup()
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage token":  "Bearer not.a.token",
	}
	for name, header := range cases {
		req := httptest.NewRequest("GET", "/api/rooms", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestResolveVenue(t *testing.T) {
	mw, _ := testSetup()

	var gotVenue string
	handler := mw.ResolveVenue(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVenue, _ = GetVenueFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	req.Header.Set("X-Venue", "cccr") // case-insensitive
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CCCR", gotVenue)
}

func TestResolveVenueRejectsMissingAndUnknown(t *testing.T) {
	mw, _ := testSetup()
	handler := mw.ResolveVenue(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for name, venue := range map[string]string{"missing": "", "unknown": "NOPE"} {
		req := httptest.NewRequest("GET", "/api/rooms", nil)
		if venue != "" {
			req.Header.Set("X-Venue", venue)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}
