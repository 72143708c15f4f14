package handlers

import (
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/pagination"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers lists public profiles, e.g. workers with a skill
// @Summary List users
// @Description Find users by role and skill (employers looking for workers)
// @Tags Users
// @Produce json
// @Security SessionCookie
// @Param role query string false "Role filter"
// @Param skill query string false "Skill filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {array} models.UserResponse
// @Header 200 {integer} X-Total-Count "Total matching users"
// @Header 200 {integer} X-Total-Pages "Number of pages at the requested limit"
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Role:  domain.Role(c.Query("role")),
		Skill: c.Query("skill"),
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		return err
	}

	pagination.SetTotal(c, params, total)
	return response.OK(c, users)
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security SessionCookie
// @Param id path string true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserByID(c.Context(), p, id)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// UpdateProfile handles updating own profile
// @Summary Update own profile
// @Description Role and username cannot be changed
// @Tags Users
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.UpdateProfileInput
	if err := bind(c, updateProfileSchema, &input); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Context(), p, &input)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// ChangePassword handles changing own password
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.ResultBody
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.ChangePasswordInput
	if err := bind(c, changePasswordSchema, &input); err != nil {
		return err
	}

	if err := h.userService.ChangePassword(c.Context(), p, &input); err != nil {
		return err
	}
	return response.Result(c, "Password changed successfully")
}
