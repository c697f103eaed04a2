package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
)

// authHandler handles registration, verification and session requests.
type authHandler struct {
	authService        portssvc.AuthSvcFacade
	directRegistration bool
}

func newAuthHandler(authService portssvc.AuthSvcFacade, directRegistration bool) *authHandler {
	return &authHandler{authService: authService, directRegistration: directRegistration}
}

// registerAuthRoutes sets up the /auth routes. limit guards the credential and mail
// endpoints; authenticated wraps the session endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, directRegistration bool, limit, authenticated gin.HandlerFunc) {
	RegisterValidators()
	h := newAuthHandler(authService, directRegistration)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", limit, h.register)
		if h.directRegistration {
			auth.POST("/register/direct", limit, h.registerDirect)
		}
		auth.POST("/send-verification", limit, h.sendVerification)
		auth.POST("/verify-email", h.verifyEmail)
		auth.POST("/login", limit, h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", authenticated, h.logout)
		auth.GET("/me", authenticated, h.me)
	}
}

// register godoc
// @Summary Register a new user
// @Description Stores the credentials on an unverified account and emails a 6-digit verification code.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.Response{data=dto.PendingRegistrationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "EMAIL_ALREADY_VERIFIED or USERNAME_TAKEN"
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	pending, err := h.authService.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.CodeRegistrationPending, dto.ToPendingRegistrationResponse(pending))
}

// registerDirect godoc
// @Summary Register and sign in without email verification
// @Description Only available when AUTH_DIRECT_REGISTRATION is enabled.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "EMAIL_ALREADY_USED or USERNAME_TAKEN"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register/direct [post]
func (h *authHandler) registerDirect(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.RegisterDirect(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.CodeRegistrationSuccess, dto.ToAuthResponse(result))
}

// sendVerification godoc
// @Summary Send an email verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SendVerificationRequest true "Email address"
// @Success 200 {object} dto.Response{data=dto.PendingRegistrationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "EMAIL_ALREADY_VERIFIED"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/send-verification [post]
func (h *authHandler) sendVerification(c *gin.Context) {
	var req dto.SendVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	pending, err := h.authService.SendVerificationCode(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeVerificationSent, dto.ToPendingRegistrationResponse(pending))
}

// verifyEmail godoc
// @Summary Verify email with the emailed code
// @Description Consumes the code, activates the account and starts a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailRequest true "Email and code"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "INVALID_VERIFICATION_CODE or VERIFICATION_EXPIRED"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/verify-email [post]
func (h *authHandler) verifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Email verified", slog.Int64("user_id", result.User.ID))
	respond(c, http.StatusOK, dto.CodeEmailVerified, dto.ToAuthResponse(result))
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "INVALID_CREDENTIALS"
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeLoginSuccess, dto.ToAuthResponse(result))
}

// refresh godoc
// @Summary Rotate a refresh token
// @Description Issues a new token pair. The presented refresh token stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "INVALID_REFRESH_TOKEN"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeTokenRefreshed, dto.ToAuthResponse(result))
}

// logout godoc
// @Summary Log out
// @Description Revokes the caller's refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeLogoutSuccess, nil)
}

// me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToUserResponse(*user))
}
