package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/renalog/internal/models"
)

var (
	ErrConfigSexInvalid   = errors.New("sex must be male, female, or unspecified")
	ErrConfigUnitInvalid  = errors.New("unknown display unit")
	ErrConfigThemeInvalid = errors.New("unknown theme")
	ErrConfigAgeInvalid   = errors.New("age out of range")
)

type ConfigStore interface {
	Load() (models.UserConfig, bool, error)
	Save(config *models.UserConfig) error
	Reset() error
}

type CycleWiper interface {
	DeleteAll() error
}

type SettingsService struct {
	config ConfigStore
	cycles CycleWiper
}

func NewSettingsService(config ConfigStore, cycles CycleWiper) *SettingsService {
	return &SettingsService{config: config, cycles: cycles}
}

// LoadConfig returns the singleton config, falling back to defaults when
// nothing has been saved yet.
func (service *SettingsService) LoadConfig() (models.UserConfig, error) {
	config, exists, err := service.config.Load()
	if err != nil {
		return models.UserConfig{}, err
	}
	if !exists {
		return models.DefaultUserConfig(), nil
	}
	return config, nil
}

// SaveConfig validates and replaces the config wholesale.
func (service *SettingsService) SaveConfig(config models.UserConfig) (models.UserConfig, error) {
	config.Nickname = strings.TrimSpace(config.Nickname)
	if config.Nickname == "" {
		config.Nickname = models.DefaultUserConfig().Nickname
	}

	switch config.Sex {
	case models.SexMale, models.SexFemale, models.SexUnspecified:
	default:
		return models.UserConfig{}, ErrConfigSexInvalid
	}

	if config.VolumeUnit == "" {
		config.VolumeUnit = models.VolumeUnitMilliliters
	}
	if config.ProteinUnit == "" {
		config.ProteinUnit = models.ProteinUnitMilligrams
	}
	if config.VolumeUnit != models.VolumeUnitMilliliters && config.VolumeUnit != models.VolumeUnitLiters {
		return models.UserConfig{}, ErrConfigUnitInvalid
	}
	if config.ProteinUnit != models.ProteinUnitMilligrams && config.ProteinUnit != models.ProteinUnitGrams {
		return models.UserConfig{}, ErrConfigUnitInvalid
	}

	if config.Theme == "" {
		config.Theme = models.ThemeLight
	}
	if config.Theme != models.ThemeLight && config.Theme != models.ThemeDark {
		return models.UserConfig{}, ErrConfigThemeInvalid
	}

	if config.Age != nil && (*config.Age < 1 || *config.Age > 150) {
		return models.UserConfig{}, ErrConfigAgeInvalid
	}

	if err := service.config.Save(&config); err != nil {
		return models.UserConfig{}, err
	}
	return config, nil
}

// NormalRangesForUser resolves the clinically normal ranges for the
// tracked person, driven by the configured sex.
func (service *SettingsService) NormalRangesForUser() (NormalRanges, error) {
	config, err := service.LoadConfig()
	if err != nil {
		return NormalRanges{}, err
	}
	return RangesForSex(config.Sex), nil
}

// ClearAllData wipes every cycle and record and resets the config to its
// defaults. Destructive; the caller confirms with the user first.
func (service *SettingsService) ClearAllData() error {
	if err := service.cycles.DeleteAll(); err != nil {
		return err
	}
	return service.config.Reset()
}
