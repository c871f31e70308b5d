package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/renalog/internal/services"
)

func (handler *Handler) ExportBackup(c *fiber.Ctx) error {
	now := time.Now().In(handler.location)
	document, err := handler.backup.Export(now)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build backup")
	}

	encoded, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build backup")
	}

	setAttachmentHeaders(c, fiber.MIMEApplicationJSON, services.BuildBackupFilename(now))
	return c.Send(encoded)
}

func (handler *Handler) ImportBackup(c *fiber.Ctx) error {
	var document services.BackupDocument
	if err := json.Unmarshal(c.Body(), &document); err != nil {
		return apiError(c, fiber.StatusBadRequest, "backup document is not valid JSON")
	}

	if err := handler.backup.Import(document); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"restored": len(document.TestCycles)})
}
