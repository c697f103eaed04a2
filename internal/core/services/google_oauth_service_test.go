package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/core/services"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, idToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		body := map[string]any{"access_token": "google-at", "token_type": "Bearer", "expires_in": 3600}
		if idToken != "" {
			body["id_token"] = idToken
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.GoogleUserInfo{
			ID: "g-1", Email: "a@x.io", VerifiedEmail: true, Name: "Alice Liddell", GivenName: "Alice",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGoogleService(srv *httptest.Server, validator func(context.Context, string, string) (*idtoken.Payload, error)) portssvc.GoogleOAuthHandlerSvcFacade {
	cfg := testConfig()
	cfg.GoogleClientSecret = "secret"
	cfg.GoogleRedirectURL = "http://localhost/api/v1/auth/google/callback"
	opts := []services.GoogleOAuthOption{
		services.WithGoogleEndpoints(oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}, srv.URL+"/userinfo"),
	}
	if validator != nil {
		opts = append(opts, services.WithIDTokenValidator(validator))
	}
	return services.NewGoogleOAuthHandlerService(cfg, opts...)
}

func TestGoogleOAuth_LoginURLCarriesState(t *testing.T) {
	svc := newGoogleService(fakeGoogle(t, ""), nil)
	ctx := context.Background()

	state, err := svc.GenerateStateString(ctx)
	require.NoError(t, err)
	assert.Len(t, state, 32)

	loginURL, err := url.Parse(svc.GetGoogleLoginURL(ctx, state))
	require.NoError(t, err)
	assert.Equal(t, state, loginURL.Query().Get("state"))
	assert.Equal(t, "client-id", loginURL.Query().Get("client_id"))
	assert.Contains(t, loginURL.Query().Get("scope"), "openid")
}

func TestGoogleOAuth_ResolveIdentityFromUserInfo(t *testing.T) {
	svc := newGoogleService(fakeGoogle(t, ""), nil)
	ctx := context.Background()

	token, err := svc.ExchangeCodeForToken(ctx, "good-code")
	require.NoError(t, err)

	identity, err := svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, identity.Provider)
	assert.Equal(t, "g-1", identity.ExternalID)
	assert.Equal(t, "a@x.io", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Alice", identity.GivenName)
}

func TestGoogleOAuth_ResolveIdentityPrefersIDToken(t *testing.T) {
	var gotAudience string
	validator := func(_ context.Context, raw, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		if raw != "signed-id-token" {
			return nil, errors.New("bad signature")
		}
		return &idtoken.Payload{
			Subject: "g-2",
			Claims: map[string]interface{}{
				"email":          "b@x.io",
				"email_verified": true,
				"given_name":     "Bob",
				"picture":        "https://example.com/bob.png",
			},
		}, nil
	}
	svc := newGoogleService(fakeGoogle(t, "signed-id-token"), validator)
	ctx := context.Background()

	token, err := svc.ExchangeCodeForToken(ctx, "good-code")
	require.NoError(t, err)

	identity, err := svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "client-id", gotAudience)
	assert.Equal(t, "g-2", identity.ExternalID)
	assert.Equal(t, "b@x.io", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "https://example.com/bob.png", identity.Picture)
}

func TestGoogleOAuth_InvalidIDTokenFails(t *testing.T) {
	validator := func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("audience mismatch")
	}
	svc := newGoogleService(fakeGoogle(t, "forged"), validator)
	ctx := context.Background()

	token, err := svc.ExchangeCodeForToken(ctx, "good-code")
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(ctx, token)
	assert.Error(t, err)
}

func TestGoogleOAuth_ExchangeRejectsBadCode(t *testing.T) {
	svc := newGoogleService(fakeGoogle(t, ""), nil)

	_, err := svc.ExchangeCodeForToken(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleOAuth_UserInfoNon200(t *testing.T) {
	svc := newGoogleService(fakeGoogle(t, ""), nil)

	_, err := svc.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "wrong", TokenType: "Bearer"})
	assert.Error(t, err)
}
