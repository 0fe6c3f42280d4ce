package backup

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stock-manager/core/logger"
)

// Handler exposes backup management over HTTP.
type Handler struct {
	backend Backend
	logger  *zap.Logger
}

// NewHandler creates a backup HTTP handler.
func NewHandler(backend Backend, log *zap.Logger) *Handler {
	return &Handler{backend: backend, logger: log}
}

// RegisterRoutes mounts the backup endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/admin/backup")
	group.Get("/", h.HandleList)
	group.Get("/status", h.HandleStatus)
	group.Post("/create", h.HandleCreate)
	group.Post("/restore", h.HandleRestore)
	group.Post("/restore/:name", h.HandleRestore)
}

// HandleList returns stored snapshots, newest first.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	infos, err := h.backend.ListBackups(c.UserContext())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Backup listing failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"backups": infos, "count": len(infos)})
}

// HandleStatus reports reachability of the backup store and the most recent
// snapshot, if any.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	infos, err := h.backend.ListBackups(c.UserContext())
	if err != nil {
		return c.JSON(fiber.Map{"connected": false, "error": err.Error()})
	}
	status := fiber.Map{"connected": true, "count": len(infos)}
	if len(infos) > 0 {
		status["latest"] = infos[0]
	}
	return c.JSON(status)
}

// HandleCreate takes a snapshot of the catalog and uploads it.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)
	info, err := h.backend.CreateBackup(c.UserContext())
	if err != nil {
		log.Error("On-demand backup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	log.Info("On-demand backup created", zap.String("object", info.Name))
	return c.Status(fiber.StatusCreated).JSON(info)
}

// HandleRestore restores the named snapshot, or the newest one when no name
// is given. Restoring replaces the entire catalog.
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)
	name := c.Params("name")
	if err := h.backend.RestoreBackup(c.UserContext(), name); err != nil {
		log.Error("Restore failed", zap.String("name", name), zap.Error(err))
		status := fiber.StatusInternalServerError
		if errors.Is(err, errNoSnapshots) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	log.Info("Restore completed", zap.String("name", name))
	return c.JSON(fiber.Map{"restored": true, "name": name})
}
