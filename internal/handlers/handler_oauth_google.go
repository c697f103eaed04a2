package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
)

const oauthStateMaxAge = 600 // seconds

// googleOAuthHandler drives the Google authorization-code flow.
// The provider exchange lives in the Google OAuth service; account linking in the auth service.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	authService        portssvc.FederatedLoginSvc
	stateCookieName    string
	secureCookie       bool
}

func newGoogleOAuthHandler(cfg *config.Config, googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade, authService portssvc.FederatedLoginSvc) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: googleOAuthService,
		authService:        authService,
		stateCookieName:    cfg.OAuthStateCookieName,
		secureCookie:       cfg.IsProduction,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(cfg, services.GoogleOAuthHandler, services.Auth)
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.GET("", h.redirectToGoogle)
		googleRoutes.GET("/callback", h.callbackGoogle)
		googleRoutes.POST("/exchange-code", h.exchangeCodeGoogle)
	}
}

// redirectToGoogle godoc
// @Summary Start Google login
// @Description Sets a short-lived state cookie and redirects to Google's consent screen.
// @Tags oauth
// @Success 302
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google [get]
func (h *googleOAuthHandler) redirectToGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.stateCookieName, state, oauthStateMaxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// callbackGoogle godoc
// @Summary Google OAuth callback
// @Description Checks the state cookie, exchanges the code and signs the user in.
// @Tags oauth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by /auth/google"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "GOOGLE_AUTH_FAILED"
// @Failure 500 {object} dto.ErrorResponse "GOOGLE_AUTH_ERROR"
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callbackGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expected, err := c.Cookie(h.stateCookieName)
	// The state is single use whatever the outcome.
	c.SetCookie(h.stateCookieName, "", -1, "/", "", h.secureCookie, true)
	state := c.Query("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch")
		respondError(c, apperrors.NewUnauthorizedError(apperrors.CodeGoogleAuthFailed))
		return
	}

	if errMsg := c.Query("error"); errMsg != "" {
		logger.Warn("Google returned an error", slog.String("error", errMsg))
		respondError(c, apperrors.NewUnauthorizedError(apperrors.CodeGoogleAuthFailed))
		return
	}

	code := c.Query("code")
	if code == "" {
		respondError(c, apperrors.NewBadRequestError("Authorization code is required."))
		return
	}
	h.completeLogin(c, code)
}

// exchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code
// @Description For single-page apps that receive the code on their own redirect URI.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "GOOGLE_AUTH_FAILED"
// @Failure 500 {object} dto.ErrorResponse "GOOGLE_AUTH_ERROR"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCodeGoogle(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	h.completeLogin(c, req.Code)
}

func (h *googleOAuthHandler) completeLogin(c *gin.Context, code string) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		respondError(c, googleFailure(err))
		return
	}

	identity, err := h.googleOAuthService.ResolveIdentity(ctx, token)
	if err != nil {
		logger.Warn("Failed to resolve Google identity", slog.String("error", err.Error()))
		respondError(c, googleFailure(err))
		return
	}

	result, err := h.authService.ExternalLogin(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("User signed in with Google", slog.Int64("user_id", result.User.ID))
	respond(c, http.StatusOK, dto.CodeLoginSuccess, dto.ToAuthResponse(result))
}

// googleFailure maps a provider error to GOOGLE_AUTH_FAILED, or a 504 when Google timed out.
func googleFailure(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewGatewayTimeoutError("Google did not respond in time")
	}
	return apperrors.Wrap(http.StatusUnauthorized, apperrors.CodeGoogleAuthFailed, err)
}
