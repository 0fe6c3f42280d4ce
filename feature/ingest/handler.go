package ingest

import (
	"stock-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the spreadsheet upload endpoint.
type Handler struct {
	coordinator *Coordinator
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(coordinator *Coordinator, logger *zap.Logger) *Handler {
	return &Handler{coordinator: coordinator, logger: logger}
}

// RegisterRoutes registers the import routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/admin/import", h.HandleImport)
}

// HandleImport ingests an uploaded .xlsx workbook and returns the report.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing file upload",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error("Failed to open upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer file.Close()

	rows, err := ReadXLSX(file)
	if err != nil {
		l.Error("Failed to parse workbook", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Starting spreadsheet import",
		zap.String("filename", fileHeader.Filename),
		zap.Int("rows", len(rows)),
	)

	report := h.coordinator.Ingest(c.Context(), rows)
	status := fiber.StatusOK
	if !report.Success {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(report)
}
