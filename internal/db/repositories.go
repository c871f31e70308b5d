package db

import "gorm.io/gorm"

type Repositories struct {
	Cycles     *CycleRepository
	Urinations *UrinationRepository
	Config     *ConfigRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Cycles:     NewCycleRepository(database),
		Urinations: NewUrinationRepository(database),
		Config:     NewConfigRepository(database),
	}
}
