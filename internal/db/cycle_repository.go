package db

import (
	"errors"

	"github.com/google/uuid"
	"github.com/terraincognita07/renalog/internal/models"
	"gorm.io/gorm"
)

// ErrMultipleOngoingCycles signals a storage state the creation contract
// makes unreachable. It is surfaced, never auto-healed.
var ErrMultipleOngoingCycles = errors.New("more than one ongoing cycle in storage")

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

// Create persists the cycle, assigning an id when the caller supplied none.
// Provided ids and timestamps are kept, which lets backup restore preserve
// them verbatim.
func (repo *CycleRepository) Create(cycle *models.TestCycle) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	return repo.database.Create(cycle).Error
}

func (repo *CycleRepository) UpdateFields(cycleID string, updates map[string]any) error {
	result := repo.database.Model(&models.TestCycle{}).Where("id = ?", cycleID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveResult replaces the cycle's embedded test result wholesale. Struct
// updates go through the JSON serializer, which map updates would bypass.
func (repo *CycleRepository) SaveResult(cycleID string, result *models.TestResult) error {
	update := repo.database.Model(&models.TestCycle{ID: cycleID}).
		Select("test_result").
		Updates(&models.TestCycle{TestResult: result})
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *CycleRepository) FindByID(cycleID string) (models.TestCycle, error) {
	var cycle models.TestCycle
	if err := repo.database.First(&cycle, "id = ?", cycleID).Error; err != nil {
		return models.TestCycle{}, err
	}
	if err := repo.attachRecords(&cycle); err != nil {
		return models.TestCycle{}, err
	}
	return cycle, nil
}

func (repo *CycleRepository) FindOngoing() (models.TestCycle, bool, error) {
	cycles := make([]models.TestCycle, 0, 1)
	if err := repo.database.
		Where("status = ?", models.CycleStatusOngoing).
		Limit(2).
		Find(&cycles).Error; err != nil {
		return models.TestCycle{}, false, err
	}
	if len(cycles) == 0 {
		return models.TestCycle{}, false, nil
	}
	if len(cycles) > 1 {
		return models.TestCycle{}, false, ErrMultipleOngoingCycles
	}

	cycle := cycles[0]
	if err := repo.attachRecords(&cycle); err != nil {
		return models.TestCycle{}, false, err
	}
	return cycle, true, nil
}

// ListAll returns every cycle newest first, each with its urination
// records attached sorted by event time.
func (repo *CycleRepository) ListAll() ([]models.TestCycle, error) {
	cycles := make([]models.TestCycle, 0)
	if err := repo.database.Order("created_at DESC, id DESC").Find(&cycles).Error; err != nil {
		return nil, err
	}

	records := make([]models.UrinationRecord, 0)
	if err := repo.database.Order("time ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	recordsByCycle := make(map[string][]models.UrinationRecord, len(cycles))
	for _, record := range records {
		recordsByCycle[record.CycleID] = append(recordsByCycle[record.CycleID], record)
	}

	for i := range cycles {
		attached := recordsByCycle[cycles[i].ID]
		if attached == nil {
			attached = make([]models.UrinationRecord, 0)
		}
		cycles[i].UrinationRecords = attached
	}
	return cycles, nil
}

// Delete removes the cycle and cascades to its urination records.
func (repo *CycleRepository) Delete(cycleID string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var cycle models.TestCycle
		if err := tx.First(&cycle, "id = ?", cycleID).Error; err != nil {
			return err
		}
		if err := tx.Where("cycle_id = ?", cycleID).Delete(&models.UrinationRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TestCycle{}, "id = ?", cycleID).Error
	})
}

func (repo *CycleRepository) DeleteAll() error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.UrinationRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.TestCycle{}).Error
	})
}

func (repo *CycleRepository) attachRecords(cycle *models.TestCycle) error {
	records := make([]models.UrinationRecord, 0)
	if err := repo.database.
		Where("cycle_id = ?", cycle.ID).
		Order("time ASC, id ASC").
		Find(&records).Error; err != nil {
		return err
	}
	cycle.UrinationRecords = records
	return nil
}
