package db

import (
	"github.com/google/uuid"
	"github.com/terraincognita07/renalog/internal/models"
	"gorm.io/gorm"
)

type UrinationRepository struct {
	database *gorm.DB
}

func NewUrinationRepository(database *gorm.DB) *UrinationRepository {
	return &UrinationRepository{database: database}
}

// Create persists the record and refreshes the parent cycle's total volume
// from a fresh sum over all of that cycle's records. The total is never
// incremented in place, so overlapping calls still converge on the correct
// value.
func (repo *UrinationRepository) Create(record *models.UrinationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var parent models.TestCycle
		if err := tx.Select("id").First(&parent, "id = ?", record.CycleID).Error; err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return recomputeCycleTotalVolume(tx, record.CycleID)
	})
}

func (repo *UrinationRepository) FindByID(recordID string) (models.UrinationRecord, error) {
	var record models.UrinationRecord
	if err := repo.database.First(&record, "id = ?", recordID).Error; err != nil {
		return models.UrinationRecord{}, err
	}
	return record, nil
}

func (repo *UrinationRepository) Delete(recordID string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var record models.UrinationRecord
		if err := tx.First(&record, "id = ?", recordID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.UrinationRecord{}, "id = ?", recordID).Error; err != nil {
			return err
		}
		return recomputeCycleTotalVolume(tx, record.CycleID)
	})
}

// RecomputeTotalVolume re-derives the stored aggregate for one cycle. Used
// by backup restore, which never trusts the totals embedded in a document.
func (repo *UrinationRepository) RecomputeTotalVolume(cycleID string) error {
	return recomputeCycleTotalVolume(repo.database, cycleID)
}

func recomputeCycleTotalVolume(tx *gorm.DB, cycleID string) error {
	var total float64
	if err := tx.Model(&models.UrinationRecord{}).
		Where("cycle_id = ?", cycleID).
		Select("COALESCE(SUM(volume), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&models.TestCycle{}).
		Where("id = ?", cycleID).
		Update("total_volume", total).Error
}
