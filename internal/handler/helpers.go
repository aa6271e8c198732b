package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/service"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Params(key)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", key)
	}
	return uint(parsed), nil
}

// viewerFromContext assembles the immutable request viewer from the locals
// populated by the JWT middleware.
func viewerFromContext(c *fiber.Ctx) service.Viewer {
	viewer := service.Viewer{}
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			viewer.ID = id
		}
	}
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			viewer.Role = models.Role(role)
		}
	}
	if v := c.Locals("group_id"); v != nil {
		if groupID, ok := v.(uint); ok {
			viewer.GroupID = &groupID
		}
	}
	return viewer
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
