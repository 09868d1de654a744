package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/application-processor/internal/repositories"
)

type ErrorLogHandler struct {
	errRepo repositories.ErrorLogRepository
}

func NewErrorLogHandler(errRepo repositories.ErrorLogRepository) *ErrorLogHandler {
	return &ErrorLogHandler{errRepo: errRepo}
}

// HandleList handles GET /api/v1/error-logs.
func (h *ErrorLogHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	logs, err := h.errRepo.Recent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list error logs",
		})
	}

	return c.JSON(fiber.Map{"error_logs": logs})
}
