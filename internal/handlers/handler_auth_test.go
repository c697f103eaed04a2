package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/handlers"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"golang.org/x/oauth2"
)

type AuthFlowTestSuite struct {
	apiSuite
}

func TestAuthFlowTestSuite(t *testing.T) {
	suite.Run(t, new(AuthFlowTestSuite))
}

func (suite *AuthFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testConfig()
	suite.cfg.DirectRegistrationEnabled = true
	suite.buildRouter(handlers.RouterOptions{Logger: quietLogger()})
}

func registerBody(email, username, password string) gin.H {
	return gin.H{"email": email, "username": username, "password": password}
}

func (suite *AuthFlowTestSuite) TestRegisterVerifyLoginRefreshLogout() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/register", registerBody("shopper@example.com", "shopper", strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal(dto.CodeRegistrationPending, env.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "shopper@example.com", "password": strongPassword}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeInvalidCredentials, env.Code)

	code := suite.mail.lastCode("shopper@example.com")
	suite.Require().Len(code, 6)
	w, env = suite.do(http.MethodPost, "/api/v1/auth/verify-email", gin.H{"email": "shopper@example.com", "code": code}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(dto.CodeEmailVerified, env.Code)
	verified := suite.authData(env)
	suite.True(verified.User.IsVerified)
	suite.Equal(domain.RoleBuyer, verified.User.Role)
	suite.Equal(2, suite.mail.count(), "verification then welcome")

	w, env = suite.do(http.MethodPost, "/api/v1/auth/verify-email", gin.H{"email": "shopper@example.com", "code": code}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeInvalidVerificationCode, env.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "SHOPPER@example.com", "password": strongPassword}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	session := suite.authData(env)

	w, env = suite.do(http.MethodGet, "/api/v1/auth/me", nil, session.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &me))
	suite.Equal("shopper", me.Username)
	suite.NotContains(w.Body.String(), "password")

	w, env = suite.do(http.MethodPost, "/api/v1/auth/refresh", gin.H{"refreshToken": session.RefreshToken}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(dto.CodeTokenRefreshed, env.Code)
	rotated := suite.authData(env)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/refresh", gin.H{"refreshToken": session.RefreshToken}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeInvalidRefreshToken, env.Code)

	w, _ = suite.do(http.MethodPost, "/api/v1/auth/logout", nil, rotated.AccessToken)
	suite.Equal(http.StatusOK, w.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/refresh", gin.H{"refreshToken": rotated.RefreshToken}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeInvalidRefreshToken, env.Code)
}

func (suite *AuthFlowTestSuite) TestRegister_Validation() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/register", registerBody("shopper@example.com", "shopper", "weakpass"), "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)
	fields, ok := env.Details["fields"].(map[string]any)
	suite.Require().True(ok, w.Body.String())
	suite.Equal("strongpassword", fields["password"])

	w, env = suite.do(http.MethodPost, "/api/v1/auth/register", registerBody("not-an-email", "shopper", strongPassword), "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)
	suite.Zero(suite.mail.count())
}

func (suite *AuthFlowTestSuite) TestRegister_PasswordOver72Bytes() {
	long := "Aa1!" + strings.Repeat("x", 80)
	for _, path := range []string{"/api/v1/auth/register", "/api/v1/auth/register/direct"} {
		w, env := suite.do(http.MethodPost, path, registerBody("long@example.com", "longpw", long), "")
		suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		suite.Equal(apperrors.CodeValidationError, env.Code)
		fields, ok := env.Details["fields"].(map[string]any)
		suite.Require().True(ok, w.Body.String())
		suite.Equal("strongpassword", fields["password"])
	}
	suite.Zero(suite.mail.count())
}

func (suite *AuthFlowTestSuite) TestVerifyEmail_RejectsMalformedCode() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/verify-email", gin.H{"email": "a@example.com", "code": "12ab56"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)
}

func (suite *AuthFlowTestSuite) TestSendVerificationThenRegister() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/send-verification", gin.H{"email": "late@example.com"}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(dto.CodeVerificationSent, env.Code)

	w, _ = suite.do(http.MethodPost, "/api/v1/auth/register", registerBody("late@example.com", "late", strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	code := suite.mail.lastCode("late@example.com")
	w, env = suite.do(http.MethodPost, "/api/v1/auth/verify-email", gin.H{"email": "late@example.com", "code": code}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("late", suite.authData(env).User.Username)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/send-verification", gin.H{"email": "late@example.com"}, "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeEmailAlreadyVerified, env.Code)
}

func (suite *AuthFlowTestSuite) TestRegisterDirect() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody("direct@example.com", "direct", strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal(dto.CodeRegistrationSuccess, env.Code)
	suite.True(suite.authData(env).User.IsVerified)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody("other@example.com", "direct", strongPassword), "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeUsernameTaken, env.Code)
	suite.Equal("username", env.Details["field"])
}

func (suite *AuthFlowTestSuite) TestRegisterDirect_DisabledByDefault() {
	suite.repos.Close()
	suite.cfg.DirectRegistrationEnabled = false
	suite.buildRouter(handlers.RouterOptions{Logger: quietLogger()})

	w, _ := suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody("direct@example.com", "direct", strongPassword), "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AuthFlowTestSuite) TestLogin_RateLimited() {
	limiter, err := middleware.NewRateLimiter("2-M", "test", nil)
	suite.Require().NoError(err)
	suite.repos.Close()
	suite.buildRouter(handlers.RouterOptions{Logger: quietLogger(), AuthLimiter: limiter})

	creds := gin.H{"email": "nobody@example.com", "password": strongPassword}
	for i := 0; i < 2; i++ {
		w, env := suite.do(http.MethodPost, "/api/v1/auth/login", creds, "")
		suite.Equal(http.StatusUnauthorized, w.Code)
		suite.Equal(apperrors.CodeInvalidCredentials, env.Code)
	}
	w, env := suite.do(http.MethodPost, "/api/v1/auth/login", creds, "")
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.Equal(apperrors.CodeRateLimitExceeded, env.Code)
	suite.Equal("0", w.Header().Get("X-RateLimit-Remaining"))
}

func (suite *AuthFlowTestSuite) TestMe_RequiresAccessToken() {
	w, env := suite.do(http.MethodGet, "/api/v1/auth/me", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeUnauthorized, env.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody("r@example.com", "refresher", strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code)
	session := suite.authData(env)

	w, _ = suite.do(http.MethodGet, "/api/v1/auth/me", nil, session.RefreshToken)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthFlowTestSuite) TestGoogleRedirectSetsStateCookie() {
	suite.google.On("GenerateStateString", mock.Anything).Return("state-123", nil)

	w, _ := suite.do(http.MethodGet, "/api/v1/auth/google", nil, "")

	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "state=state-123")
	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.OAuthStateCookieName {
			stateCookie = c
		}
	}
	suite.Require().NotNil(stateCookie)
	suite.Equal("state-123", stateCookie.Value)
	suite.True(stateCookie.HttpOnly)
}

func (suite *AuthFlowTestSuite) TestGoogleCallback_StateMismatch() {
	w, env := suite.do(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state=forged", nil, "",
		&http.Cookie{Name: suite.cfg.OAuthStateCookieName, Value: "expected"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeGoogleAuthFailed, env.Code)
	suite.google.AssertNotCalled(suite.T(), "ExchangeCodeForToken", mock.Anything, mock.Anything)
}

func (suite *AuthFlowTestSuite) TestGoogleCallback_ProvisionsVerifiedBuyer() {
	token := &oauth2.Token{AccessToken: "google-access"}
	suite.google.On("ExchangeCodeForToken", mock.Anything, "auth-code").Return(token, nil)
	suite.google.On("ResolveIdentity", mock.Anything, token).Return(&domain.ExternalIdentity{
		Provider:      domain.ProviderGoogle,
		ExternalID:    "google-sub-1",
		Email:         "Google.User@example.com",
		EmailVerified: true,
		Name:          "Google User",
		Picture:       "https://example.com/p.png",
	}, nil)

	w, env := suite.do(http.MethodGet, "/api/v1/auth/google/callback?code=auth-code&state=s1", nil, "",
		&http.Cookie{Name: suite.cfg.OAuthStateCookieName, Value: "s1"})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	auth := suite.authData(env)
	suite.Equal("google.user@example.com", auth.User.Email)
	suite.True(auth.User.IsVerified)
	suite.Equal(domain.RoleBuyer, auth.User.Role)
	suite.Require().NotNil(auth.User.Picture)
}

func (suite *AuthFlowTestSuite) TestGoogleExchangeCode_ProviderRejects() {
	suite.google.On("ExchangeCodeForToken", mock.Anything, "bad-code").
		Return(nil, &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}})

	w, env := suite.do(http.MethodPost, "/api/v1/auth/google/exchange-code", gin.H{"code": "bad-code"}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeGoogleAuthFailed, env.Code)
}

func (suite *AuthFlowTestSuite) TestHealthAndHome() {
	w, _ := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	w, env := suite.do(http.MethodGet, "/api/v1", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), "Welcome to TokoKita API")

	w, _ = suite.do(http.MethodGet, "/metrics", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}
