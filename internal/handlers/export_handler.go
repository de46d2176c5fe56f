package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"hrscreening/resume-screener/internal/repositories"
	"hrscreening/resume-screener/internal/services"
)

type ExportHandler struct {
	submissionRepo repositories.SubmissionRepository
	exporter       services.ExporterService
}

func NewExportHandler(
	submissionRepo repositories.SubmissionRepository,
	exporter services.ExporterService,
) *ExportHandler {
	return &ExportHandler{
		submissionRepo: submissionRepo,
		exporter:       exporter,
	}
}

// HandleExport handles GET /export and streams an XLSX workbook of all
// recorded submissions.
func (h *ExportHandler) HandleExport(c *fiber.Ctx) error {
	submissions, err := h.submissionRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to load submissions: %v", err),
		})
	}

	buf, err := h.exporter.Export(submissions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to build export: %v", err),
		})
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().Format("20060102_150405"))

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return c.Send(buf.Bytes())
}
