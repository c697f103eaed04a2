package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tokokita/ecommerce_backend/internal/adapters/notification"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/core/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/handlers"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/repositories/database/sqlite"
	"github.com/tokokita/ecommerce_backend/pkg/database"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

const strongPassword = "Str0ng!Pass"

func testConfig() *config.Config {
	return &config.Config{
		AppName:                    "TokoKita",
		JWTSecret:                  "access-secret-for-handler-tests",
		RefreshTokenSecret:         "refresh-secret-for-handler-tests",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
		JWTIssuer:                  "ecommerce-test",
		OAuthStateCookieName:       "oauthstate",
		RequestTimeout:             5 * time.Second,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mailbox is a notification transport that keeps every message.
type mailbox struct {
	mu       sync.Mutex
	messages []mailMessage
}

type mailMessage struct {
	to, subject, body string
}

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

func (m *mailbox) Deliver(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, mailMessage{to: to, subject: subject, body: htmlBody})
	return nil
}

// lastCode returns the code from the newest verification email sent to to.
func (m *mailbox) lastCode(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.to == to && strings.Contains(msg.subject, "Verify") {
			return sixDigits.FindString(msg.body)
		}
	}
	return ""
}

func (m *mailbox) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// MockGoogleOAuthService stands in for the Google provider.
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockGoogleOAuthService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoogleUserInfo), args.Error(1)
}

func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}

func (m *MockGoogleOAuthService) ResolveIdentity(ctx context.Context, token *oauth2.Token) (*domain.ExternalIdentity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalIdentity), args.Error(1)
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)

// envelope is the union of the success and error envelopes.
type envelope struct {
	Success      bool            `json:"success"`
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	ErrorMessage string          `json:"error_message"`
	Details      map[string]any  `json:"details"`
	Data         json.RawMessage `json:"data"`
}

// apiSuite drives the HTTP API end to end against an in-memory SQLite store.
type apiSuite struct {
	suite.Suite
	cfg    *config.Config
	repos  portsrepo.RepositoryProvider
	mail   *mailbox
	google *MockGoogleOAuthService
	router *gin.Engine
}

func (suite *apiSuite) TearDownTest() {
	suite.repos.Close()
}

func (suite *apiSuite) buildRouter(opts handlers.RouterOptions) {
	db, err := database.NewSQLiteDB(database.MemorySQLitePath, false)
	suite.Require().NoError(err)
	suite.repos = sqlite.NewRepositoryProvider(db)

	suite.mail = &mailbox{}
	sender, err := notification.NewSender(suite.mail, suite.cfg.AppName)
	suite.Require().NoError(err)

	container := services.NewServiceContainer(suite.cfg, suite.repos, sender, nil)
	suite.google = new(MockGoogleOAuthService)
	container.GoogleOAuthHandler = suite.google
	suite.router = handlers.NewRouter(suite.cfg, container, opts)
}

func (suite *apiSuite) do(method, path string, body any, token string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (suite *apiSuite) authData(env envelope) dto.AuthResponse {
	var auth dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &auth))
	suite.Require().NotEmpty(auth.AccessToken)
	suite.Require().NotEmpty(auth.RefreshToken)
	return auth
}

