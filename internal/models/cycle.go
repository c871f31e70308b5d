package models

import "time"

const (
	CycleStatusOngoing   = "ongoing"
	CycleStatusCompleted = "completed"
	CycleStatusManual    = "manual"
)

// CycleDuration is the length of one collection window.
const CycleDuration = 24 * time.Hour

type TestCycle struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	StartTime   time.Time   `gorm:"not null;index" json:"startTime"`
	EndTime     *time.Time  `json:"endTime,omitempty"`
	Status      string      `gorm:"not null;index" json:"status"`
	TotalVolume float64     `gorm:"not null;default:0" json:"totalVolume"`
	TestResult  *TestResult `gorm:"serializer:json" json:"testResult,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updatedAt"`

	// Loaded by the repositories, never persisted through this field.
	UrinationRecords []UrinationRecord `gorm:"-" json:"urinationRecords"`
}

func (cycle TestCycle) IsOngoing() bool {
	return cycle.Status == CycleStatusOngoing
}

func (cycle TestCycle) IsFinished() bool {
	return cycle.Status == CycleStatusCompleted || cycle.Status == CycleStatusManual
}

type UrinationRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CycleID   string    `gorm:"not null;index" json:"cycleId"`
	Time      time.Time `gorm:"not null;index" json:"time"`
	Volume    float64   `gorm:"not null" json:"volume"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TestResult is attached to a cycle wholesale; it has no identity of its
// own and lives as a JSON column on test_cycles.
type TestResult struct {
	Protein         float64   `json:"protein"`
	ProteinTotal24h *float64  `json:"proteinTotal24h,omitempty"`
	ProteinDipstick string    `json:"proteinDipstick,omitempty"`
	OccultBlood     string    `json:"occultBlood,omitempty"`
	Creatinine      float64   `json:"creatinine"`
	SpecificGravity float64   `json:"specificGravity"`
	PH              float64   `json:"ph"`
	TestedAt        time.Time `json:"testedAt"`
}
