package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/export"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler descarga el respaldo de datos en Excel.
type ExportHandler struct {
	uc *export.SnapshotUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.SnapshotUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Snapshot GET /api/export/snapshot
func (h *ExportHandler) Snapshot(c *fiber.Ctx) error {
	data, filename, err := h.uc.Export(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, contentTypeXLSX, filename, data)
}
