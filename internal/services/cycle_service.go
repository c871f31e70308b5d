package services

import (
	"errors"
	"math"
	"time"

	"github.com/terraincognita07/renalog/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCycleNotFound           = errors.New("cycle not found")
	ErrUrinationRecordNotFound = errors.New("urination record not found")
	ErrCycleAlreadyActive      = errors.New("a cycle is already ongoing")
	ErrCycleNotOngoing         = errors.New("cycle is not ongoing")
	ErrCycleCompleted          = errors.New("cycle is completed, records are locked")
	ErrInvalidVolume           = errors.New("volume must be greater than zero")
	ErrManualRangeInvalid      = errors.New("manual cycle end time precedes start time")
)

type CycleRepository interface {
	Create(cycle *models.TestCycle) error
	UpdateFields(cycleID string, updates map[string]any) error
	SaveResult(cycleID string, result *models.TestResult) error
	FindByID(cycleID string) (models.TestCycle, error)
	FindOngoing() (models.TestCycle, bool, error)
	ListAll() ([]models.TestCycle, error)
	Delete(cycleID string) error
}

type UrinationRepository interface {
	Create(record *models.UrinationRecord) error
	FindByID(recordID string) (models.UrinationRecord, error)
	Delete(recordID string) error
}

// CycleService drives a cycle through not-started, ongoing and completed.
// Whether records may still be edited after completion differs between
// deployments, so it is an explicit policy switch rather than a baked-in
// answer.
type CycleService struct {
	cycles              CycleRepository
	records             UrinationRepository
	allowCompletedEdits bool
}

func NewCycleService(cycles CycleRepository, records UrinationRepository, allowCompletedEdits bool) *CycleService {
	return &CycleService{
		cycles:              cycles,
		records:             records,
		allowCompletedEdits: allowCompletedEdits,
	}
}

// StartCycle opens a fresh 24-hour window. Only one cycle may be ongoing
// at a time; the existing one must be ended first.
func (service *CycleService) StartCycle(now time.Time) (models.TestCycle, error) {
	_, active, err := service.cycles.FindOngoing()
	if err != nil {
		return models.TestCycle{}, err
	}
	if active {
		return models.TestCycle{}, ErrCycleAlreadyActive
	}

	cycle := models.TestCycle{
		StartTime:        now,
		Status:           models.CycleStatusOngoing,
		TotalVolume:      0,
		UrinationRecords: []models.UrinationRecord{},
	}
	if err := service.cycles.Create(&cycle); err != nil {
		return models.TestCycle{}, err
	}
	return cycle, nil
}

// EndCycle is one-way: a completed cycle never becomes ongoing again.
// Ending does not require a test result to be present.
func (service *CycleService) EndCycle(cycleID string, now time.Time) (models.TestCycle, error) {
	cycle, err := service.loadCycle(cycleID)
	if err != nil {
		return models.TestCycle{}, err
	}
	if !cycle.IsOngoing() {
		return models.TestCycle{}, ErrCycleNotOngoing
	}

	if err := service.cycles.UpdateFields(cycleID, map[string]any{
		"status":   models.CycleStatusCompleted,
		"end_time": now,
	}); err != nil {
		return models.TestCycle{}, service.translateCycleError(err)
	}
	return service.loadCycle(cycleID)
}

func (service *CycleService) AddUrinationRecord(cycleID string, eventTime time.Time, volume float64) (models.UrinationRecord, error) {
	if volume <= 0 {
		return models.UrinationRecord{}, ErrInvalidVolume
	}

	cycle, err := service.loadCycle(cycleID)
	if err != nil {
		return models.UrinationRecord{}, err
	}
	if cycle.IsFinished() && !service.allowCompletedEdits {
		return models.UrinationRecord{}, ErrCycleCompleted
	}

	record := models.UrinationRecord{
		CycleID: cycleID,
		Time:    eventTime,
		Volume:  volume,
	}
	if err := service.records.Create(&record); err != nil {
		return models.UrinationRecord{}, service.translateCycleError(err)
	}

	if err := service.syncDerivedProteinTotal(cycle); err != nil {
		return models.UrinationRecord{}, err
	}
	return record, nil
}

func (service *CycleService) DeleteUrinationRecord(recordID string) error {
	record, err := service.records.FindByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUrinationRecordNotFound
		}
		return err
	}

	cycle, err := service.loadCycle(record.CycleID)
	if err != nil {
		return err
	}
	if cycle.IsFinished() && !service.allowCompletedEdits {
		return ErrCycleCompleted
	}

	if err := service.records.Delete(recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUrinationRecordNotFound
		}
		return err
	}
	return service.syncDerivedProteinTotal(cycle)
}

// AttachTestResult replaces the cycle's result wholesale. It is legal on
// an ongoing cycle (results may be entered early) and never changes the
// cycle status. A missing 24h protein total is derived from concentration
// and the current total volume.
func (service *CycleService) AttachTestResult(cycleID string, result models.TestResult) (models.TestCycle, error) {
	cycle, err := service.loadCycle(cycleID)
	if err != nil {
		return models.TestCycle{}, err
	}

	if result.ProteinTotal24h == nil {
		derived := ProteinTotal24h(result.Protein, cycle.TotalVolume)
		result.ProteinTotal24h = &derived
	}

	if err := service.cycles.SaveResult(cycleID, &result); err != nil {
		return models.TestCycle{}, service.translateCycleError(err)
	}
	return service.loadCycle(cycleID)
}

type ManualCycleInput struct {
	StartTime   time.Time
	EndTime     time.Time
	TotalVolume float64
	Result      models.TestResult
}

// CreateManualCycle records a window after the fact, skipping the ongoing
// state entirely. The total volume is supplied directly; there are no
// child urination records.
func (service *CycleService) CreateManualCycle(input ManualCycleInput) (models.TestCycle, error) {
	if input.TotalVolume <= 0 {
		return models.TestCycle{}, ErrInvalidVolume
	}

	endTime := input.EndTime
	if endTime.IsZero() {
		endTime = input.StartTime.Add(models.CycleDuration)
	}
	if endTime.Before(input.StartTime) {
		return models.TestCycle{}, ErrManualRangeInvalid
	}

	result := input.Result
	if result.ProteinTotal24h == nil {
		derived := ProteinTotal24h(result.Protein, input.TotalVolume)
		result.ProteinTotal24h = &derived
	}

	cycle := models.TestCycle{
		StartTime:        input.StartTime,
		EndTime:          &endTime,
		Status:           models.CycleStatusManual,
		TotalVolume:      input.TotalVolume,
		TestResult:       &result,
		UrinationRecords: []models.UrinationRecord{},
	}
	if err := service.cycles.Create(&cycle); err != nil {
		return models.TestCycle{}, err
	}
	return cycle, nil
}

func (service *CycleService) DeleteCycle(cycleID string) error {
	if err := service.cycles.Delete(cycleID); err != nil {
		return service.translateCycleError(err)
	}
	return nil
}

func (service *CycleService) GetCycle(cycleID string) (models.TestCycle, error) {
	return service.loadCycle(cycleID)
}

func (service *CycleService) GetOngoing() (models.TestCycle, bool, error) {
	return service.cycles.FindOngoing()
}

func (service *CycleService) ListCycles() ([]models.TestCycle, error) {
	return service.cycles.ListAll()
}

// StartGate answers whether a new cycle may begin right now and what the
// UI should confirm first. A finished cycle that still lacks a result is
// not a data invariant, only a prompt to attach one or skip explicitly.
type StartGate struct {
	CanStart            bool   `json:"canStart"`
	OngoingCycleID      string `json:"ongoingCycleId,omitempty"`
	PreviousCycleID     string `json:"previousCycleId,omitempty"`
	PreviousNeedsResult bool   `json:"previousNeedsResult"`
}

func (service *CycleService) EvaluateStartGate() (StartGate, error) {
	ongoing, active, err := service.cycles.FindOngoing()
	if err != nil {
		return StartGate{}, err
	}
	if active {
		return StartGate{CanStart: false, OngoingCycleID: ongoing.ID}, nil
	}

	cycles, err := service.cycles.ListAll()
	if err != nil {
		return StartGate{}, err
	}
	gate := StartGate{CanStart: true}
	if len(cycles) > 0 {
		latest := cycles[0]
		gate.PreviousCycleID = latest.ID
		gate.PreviousNeedsResult = latest.TestResult == nil
	}
	return gate, nil
}

// syncDerivedProteinTotal refreshes a stored 24h protein total after the
// cycle's volume changed, but only when the stored value still matches
// what the formula produced before the change. A value the user typed in
// by hand is treated as an override and left alone.
func (service *CycleService) syncDerivedProteinTotal(before models.TestCycle) error {
	if before.TestResult == nil || before.TestResult.ProteinTotal24h == nil {
		return nil
	}

	previousDerived := ProteinTotal24h(before.TestResult.Protein, before.TotalVolume)
	if !nearlyEqual(*before.TestResult.ProteinTotal24h, previousDerived) {
		return nil
	}

	refreshed, err := service.loadCycle(before.ID)
	if err != nil {
		return err
	}
	if refreshed.TestResult == nil {
		return nil
	}
	result := *refreshed.TestResult
	derived := ProteinTotal24h(result.Protein, refreshed.TotalVolume)
	result.ProteinTotal24h = &derived
	if err := service.cycles.SaveResult(before.ID, &result); err != nil {
		return service.translateCycleError(err)
	}
	return nil
}

func (service *CycleService) loadCycle(cycleID string) (models.TestCycle, error) {
	cycle, err := service.cycles.FindByID(cycleID)
	if err != nil {
		return models.TestCycle{}, service.translateCycleError(err)
	}
	return cycle, nil
}

func (service *CycleService) translateCycleError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCycleNotFound
	}
	return err
}

func nearlyEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
