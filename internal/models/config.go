package models

import "time"

const (
	SexMale        = "male"
	SexFemale      = "female"
	SexUnspecified = ""
)

const (
	VolumeUnitMilliliters = "ml"
	VolumeUnitLiters      = "l"
	ProteinUnitMilligrams = "mg"
	ProteinUnitGrams      = "g"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserConfigKey is the fixed primary key of the singleton config row.
const UserConfigKey = "default"

type UserConfig struct {
	ID          string    `gorm:"primaryKey" json:"-"`
	Nickname    string    `gorm:"not null" json:"nickname"`
	Sex         string    `json:"sex,omitempty"`
	Age         *int      `json:"age,omitempty"`
	VolumeUnit  string    `gorm:"not null" json:"volumeUnit"`
	ProteinUnit string    `gorm:"not null" json:"proteinUnit"`
	Theme       string    `gorm:"not null" json:"theme"`
	UpdatedAt   time.Time `json:"-"`
}

func (UserConfig) TableName() string {
	return "user_config"
}

func DefaultUserConfig() UserConfig {
	return UserConfig{
		ID:          UserConfigKey,
		Nickname:    "User",
		VolumeUnit:  VolumeUnitMilliliters,
		ProteinUnit: ProteinUnitMilligrams,
		Theme:       ThemeLight,
	}
}
