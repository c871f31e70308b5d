package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/renalog/internal/models"
	"github.com/terraincognita07/renalog/internal/services"
)

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	cycles, err := handler.cycles.ListCycles()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"cycles": cycles})
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	cycle, err := handler.cycles.GetCycle(c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}

	ranges, err := handler.settings.NormalRangesForUser()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"cycle":      cycle,
		"assessment": buildAssessment(cycle, ranges),
	})
}

func (handler *Handler) GetOngoingCycle(c *fiber.Ctx) error {
	cycle, active, err := handler.cycles.GetOngoing()
	if err != nil {
		return handler.serviceError(c, err)
	}
	if !active {
		return c.JSON(fiber.Map{"cycle": nil})
	}

	now := time.Now().In(handler.location)
	return c.JSON(fiber.Map{
		"cycle":     cycle,
		"remaining": services.CycleRemainingTime(cycle.StartTime, now),
	})
}

func (handler *Handler) GetStartGate(c *fiber.Ctx) error {
	gate, err := handler.cycles.EvaluateStartGate()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(gate)
}

func (handler *Handler) StartCycle(c *fiber.Ctx) error {
	cycle, err := handler.cycles.StartCycle(time.Now().In(handler.location))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (handler *Handler) EndCycle(c *fiber.Ctx) error {
	cycle, err := handler.cycles.EndCycle(c.Params("id"), time.Now().In(handler.location))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) CreateManualCycle(c *fiber.Ctx) error {
	var input manualCycleInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.validate.Struct(input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	startTime, err := parseTimeInput(input.StartTime, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start time")
	}
	var endTime time.Time
	if input.EndTime != "" {
		endTime, err = parseTimeInput(input.EndTime, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid end time")
		}
	}
	result, err := input.Result.toModel(handler.location, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid test time")
	}

	cycle, err := handler.cycles.CreateManualCycle(services.ManualCycleInput{
		StartTime:   startTime,
		EndTime:     endTime,
		TotalVolume: input.TotalVolume,
		Result:      result,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	if err := handler.cycles.DeleteCycle(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) AddUrinationRecord(c *fiber.Ctx) error {
	var input urinationRecordInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.validate.Struct(input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "volume must be greater than zero")
	}

	eventTime := time.Now().In(handler.location)
	if input.Time != "" {
		parsed, err := parseTimeInput(input.Time, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid record time")
		}
		eventTime = parsed
	}

	record, err := handler.cycles.AddUrinationRecord(c.Params("id"), eventTime, input.Volume)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (handler *Handler) DeleteUrinationRecord(c *fiber.Ctx) error {
	if err := handler.cycles.DeleteUrinationRecord(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) AttachTestResult(c *fiber.Ctx) error {
	var input testResultInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.validate.Struct(input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "lab values out of bounds")
	}

	result, err := input.toModel(handler.location, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid test time")
	}

	cycle, err := handler.cycles.AttachTestResult(c.Params("id"), result)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) GetNormalRanges(c *fiber.Ctx) error {
	ranges, err := handler.settings.NormalRangesForUser()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(ranges)
}

type resultAssessment struct {
	ProteinTotal24h        string                `json:"proteinTotal24h,omitempty"`
	Creatinine             string                `json:"creatinine,omitempty"`
	SpecificGravity        string                `json:"specificGravity,omitempty"`
	PH                     string                `json:"ph,omitempty"`
	ProteinDipstickOrdinal *float64              `json:"proteinDipstickOrdinal,omitempty"`
	OccultBloodOrdinal     *float64              `json:"occultBloodOrdinal,omitempty"`
	Ranges                 services.NormalRanges `json:"ranges"`
}

// buildAssessment classifies the attached lab values against the user's
// normal ranges and projects categorical dipstick readings onto the
// numeric charting scale. Unrecognized readings stay absent rather than
// collapsing into the most negative grade.
func buildAssessment(cycle models.TestCycle, ranges services.NormalRanges) *resultAssessment {
	if cycle.TestResult == nil {
		return nil
	}

	result := cycle.TestResult
	assessment := &resultAssessment{Ranges: ranges}
	if result.ProteinTotal24h != nil {
		assessment.ProteinTotal24h = services.ClassifyProtein24h(*result.ProteinTotal24h)
	}
	assessment.Creatinine = services.Classify(result.Creatinine, ranges.Creatinine)
	assessment.SpecificGravity = services.Classify(result.SpecificGravity, ranges.SpecificGravity)
	assessment.PH = services.Classify(result.PH, ranges.PH)

	if ordinal, ok := services.DipstickOrdinal(result.ProteinDipstick); ok {
		assessment.ProteinDipstickOrdinal = &ordinal
	}
	if ordinal, ok := services.DipstickOrdinal(result.OccultBlood); ok {
		assessment.OccultBloodOrdinal = &ordinal
	}
	return assessment
}
