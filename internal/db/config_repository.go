package db

import (
	"errors"

	"github.com/terraincognita07/renalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository struct {
	database *gorm.DB
}

func NewConfigRepository(database *gorm.DB) *ConfigRepository {
	return &ConfigRepository{database: database}
}

func (repo *ConfigRepository) Load() (models.UserConfig, bool, error) {
	var config models.UserConfig
	err := repo.database.First(&config, "id = ?", models.UserConfigKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserConfig{}, false, nil
	}
	if err != nil {
		return models.UserConfig{}, false, err
	}
	return config, true, nil
}

// Save replaces the singleton config row wholesale.
func (repo *ConfigRepository) Save(config *models.UserConfig) error {
	config.ID = models.UserConfigKey
	return repo.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(config).Error
}

// Reset restores the config row to its defaults. Part of the destructive
// clear-all-data flow; the config is never deleted on its own.
func (repo *ConfigRepository) Reset() error {
	defaults := models.DefaultUserConfig()
	return repo.Save(&defaults)
}
