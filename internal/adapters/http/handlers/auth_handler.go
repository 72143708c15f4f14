package handlers

import (
	"time"

	"dailywage-hub/internal/adapters/http/middleware"
	"dailywage-hub/internal/config"
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Register a worker, employer or NGO account and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := bind(c, registerSchema, &input); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return response.Created(c, result.User)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate and receive a session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := bind(c, loginSchema, &input); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return response.OK(c, result.User)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the current session and clear the cookie
// @Tags Auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} response.ResultBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Context(), p); err != nil {
		return err
	}

	h.clearSessionCookie(c)
	return response.Result(c, "Logged out successfully")
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke every session of the current user
// @Tags Auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} response.ResultBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.authService.LogoutAll(c.Context(), p); err != nil {
		return err
	}

	h.clearSessionCookie(c)
	return response.Result(c, "Logged out from all devices")
}

// Me returns the current user info
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Context(), p)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// setSessionCookie sets the HttpOnly session cookie
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearSessionCookie clears the session cookie
func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
