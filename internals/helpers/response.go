package helper

import (
	"github.com/gofiber/fiber/v2"
)

// Error bodies are always { "message": "..." }; validation failures return a
// field → message map instead (see JsonValidationError).

func JsonOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func JsonCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func JsonMessage(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

func JsonError(c *fiber.Ctx, code int, message string) error {
	return JsonMessage(c, code, message)
}

// JsonValidationError returns the 422 field → message map.
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fieldErrors)
}

// FromFiberError converts an error bubbled out of the service layer
// (usually *fiber.Error) into a consistent JSON response.
// Anything else falls back to 500 with the original message.
func FromFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
