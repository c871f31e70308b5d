package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/renalog/internal/models"
)

func (handler *Handler) GetUserConfig(c *fiber.Ctx) error {
	config, err := handler.settings.LoadConfig()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(config)
}

func (handler *Handler) SaveUserConfig(c *fiber.Ctx) error {
	var input userConfigInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.validate.Struct(input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid config values")
	}

	config, err := handler.settings.SaveConfig(models.UserConfig{
		Nickname:    input.Nickname,
		Sex:         input.Sex,
		Age:         input.Age,
		VolumeUnit:  input.VolumeUnit,
		ProteinUnit: input.ProteinUnit,
		Theme:       input.Theme,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(config)
}

// ClearAllData wipes everything. The UI asks for an explicit confirmation
// before calling this.
func (handler *Handler) ClearAllData(c *fiber.Ctx) error {
	if err := handler.settings.ClearAllData(); err != nil {
		return handler.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
