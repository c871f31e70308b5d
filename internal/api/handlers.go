package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/renalog/internal/db"
	"github.com/terraincognita07/renalog/internal/models"
	"github.com/terraincognita07/renalog/internal/services"
)

type Handler struct {
	cycles   *services.CycleService
	settings *services.SettingsService
	backup   *services.BackupService
	export   *services.ExportService
	validate *validator.Validate
	location *time.Location
}

func NewHandler(repos *db.Repositories, location *time.Location, allowCompletedEdits bool) *Handler {
	return &Handler{
		cycles:   services.NewCycleService(repos.Cycles, repos.Urinations, allowCompletedEdits),
		settings: services.NewSettingsService(repos.Config, repos.Cycles),
		backup:   services.NewBackupService(repos.Cycles, repos.Urinations, repos.Config),
		export:   services.NewExportService(repos.Cycles),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		location: location,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type urinationRecordInput struct {
	Time   string  `json:"time"`
	Volume float64 `json:"volume" validate:"required,gt=0"`
}

type testResultInput struct {
	Protein         float64  `json:"protein" validate:"gte=0"`
	ProteinTotal24h *float64 `json:"proteinTotal24h" validate:"omitempty,gte=0"`
	ProteinDipstick string   `json:"proteinDipstick"`
	OccultBlood     string   `json:"occultBlood"`
	Creatinine      float64  `json:"creatinine" validate:"gte=0"`
	SpecificGravity float64  `json:"specificGravity" validate:"gte=1,lte=1.1"`
	PH              float64  `json:"ph" validate:"gte=0,lte=14"`
	TestedAt        string   `json:"testedAt"`
}

type manualCycleInput struct {
	StartTime   string          `json:"startTime" validate:"required"`
	EndTime     string          `json:"endTime"`
	TotalVolume float64         `json:"totalVolume" validate:"required,gt=0"`
	Result      testResultInput `json:"result" validate:"required"`
}

type userConfigInput struct {
	Nickname    string `json:"nickname"`
	Sex         string `json:"sex" validate:"omitempty,oneof=male female"`
	Age         *int   `json:"age" validate:"omitempty,gte=1,lte=150"`
	VolumeUnit  string `json:"volumeUnit" validate:"omitempty,oneof=ml l"`
	ProteinUnit string `json:"proteinUnit" validate:"omitempty,oneof=mg g"`
	Theme       string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func (input testResultInput) toModel(location *time.Location, now time.Time) (models.TestResult, error) {
	testedAt := now
	if input.TestedAt != "" {
		parsed, err := parseTimeInput(input.TestedAt, location)
		if err != nil {
			return models.TestResult{}, err
		}
		testedAt = parsed
	}

	return models.TestResult{
		Protein:         input.Protein,
		ProteinTotal24h: input.ProteinTotal24h,
		ProteinDipstick: input.ProteinDipstick,
		OccultBlood:     input.OccultBlood,
		Creatinine:      input.Creatinine,
		SpecificGravity: input.SpecificGravity,
		PH:              input.PH,
		TestedAt:        testedAt,
	}, nil
}

// serviceError maps the service taxonomy onto HTTP statuses. Every
// failure stays local to the request; the app remains usable afterwards.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCycleNotFound),
		errors.Is(err, services.ErrUrinationRecordNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCycleAlreadyActive):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrCycleNotOngoing),
		errors.Is(err, services.ErrCycleCompleted),
		errors.Is(err, services.ErrInvalidVolume),
		errors.Is(err, services.ErrManualRangeInvalid),
		errors.Is(err, services.ErrConfigSexInvalid),
		errors.Is(err, services.ErrConfigUnitInvalid),
		errors.Is(err, services.ErrConfigThemeInvalid),
		errors.Is(err, services.ErrConfigAgeInvalid),
		errors.Is(err, services.ErrBackupInvalidFormat),
		errors.Is(err, services.ErrBackupChecksumMismatch):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrMultipleOngoingCycles):
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
