package response

import (
	"dailywage-hub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the uniform error payload
type ErrorBody struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// ResultBody is returned by operations that have no entity to show
type ResultBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK sends a 200 response with data as the body
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Result sends a 200 {success, message} response
func Result(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(ResultBody{
		Success: true,
		Message: message,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Status:  statusCode,
		Message: message,
	})
}

// ValidationFailed sends a 400 response with per-field messages
func ValidationFailed(c *fiber.Ctx, message string, fields []domain.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
		Status:  fiber.StatusBadRequest,
		Message: message,
		Errors:  fields,
	})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}
