package handlers

import (
	"encoding/json"

	"dailywage-hub/internal/adapters/http/middleware"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// bind validates the raw body against schema, then decodes it into dst
func bind(c *fiber.Ctx, schema *validator.Schema, dst interface{}) error {
	body := c.Body()
	if err := schema.Validate(c.Context(), body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.Validation("Invalid request body")
	}
	return nil
}

// principal returns the authenticated caller set by AuthMiddleware
func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return domain.Principal{}, domain.Unauthorized("Authentication required")
	}
	return p, nil
}

// uuidParam parses a UUID route parameter
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Params(name), name)
}

// optionalUUIDQuery parses a UUID query parameter, nil when absent
func optionalUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validation("Invalid "+field,
			domain.FieldError{Field: field, Message: "must be a UUID"})
	}
	return id, nil
}
