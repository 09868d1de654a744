package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/application-processor/internal/apperrors"
	"alfredoptarigan/application-processor/internal/repositories"
	"alfredoptarigan/application-processor/internal/services"
)

type ApplicationHandler struct {
	processor   services.ApplicationProcessor
	appRepo     repositories.ApplicationRepository
	storage     services.StorageService
	scorer      services.Scorer
	index       services.SimilarityIndex
	maxFileSize int64
	logger      *zap.Logger
}

func NewApplicationHandler(
	processor services.ApplicationProcessor,
	appRepo repositories.ApplicationRepository,
	storage services.StorageService,
	scorer services.Scorer,
	index services.SimilarityIndex,
	maxFileSize int64,
	logger *zap.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		processor:   processor,
		appRepo:     appRepo,
		storage:     storage,
		scorer:      scorer,
		index:       index,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleSubmit handles POST /api/v1/applications.
func (h *ApplicationHandler) HandleSubmit(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	// Audit copy; the pipeline works from the in-memory bytes.
	if _, err := h.storage.SaveResume(data, file.Filename); err != nil {
		h.logger.Warn("failed to save resume audit copy", zap.Error(err))
	}

	result, err := h.processor.Process(c.UserContext(), services.ResumeUpload{
		Filename: file.Filename,
		Data:     data,
	}, jobDescription)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(result)
}

// HandleGetApplication handles GET /api/v1/applications/:id.
func (h *ApplicationHandler) HandleGetApplication(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID format",
		})
	}

	app, err := h.appRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "application not found",
		})
	}

	return c.JSON(app)
}

// HandleFindSimilar handles GET /api/v1/applications/:id/similar. The
// lookup is advisory for recruiters; it never influences dedup decisions.
func (h *ApplicationHandler) HandleFindSimilar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID format",
		})
	}

	app, err := h.appRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "application not found",
		})
	}

	embedding, err := h.scorer.Embed(c.UserContext(), app.ResumeContent)
	if err != nil {
		return h.errorResponse(c, err)
	}

	limit := c.QueryInt("limit", 5)
	similar, err := h.index.SearchSimilar(c.UserContext(), embedding, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "similarity search failed",
		})
	}

	return c.JSON(fiber.Map{
		"application_id": app.ID,
		"similar":        similar,
	})
}

func (h *ApplicationHandler) errorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(fiber.Map{
			"error": appErr.Message,
			"stage": appErr.Stage,
		})
	}

	h.logger.Error("unclassified processing failure", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
