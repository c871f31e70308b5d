package services

import (
	"time"

	"github.com/terraincognita07/renalog/internal/models"
)

type RemainingTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (remaining RemainingTime) Elapsed() bool {
	return remaining.Hours == 0 && remaining.Minutes == 0 && remaining.Seconds == 0
}

// CycleRemainingTime reports how much of the 24-hour window is left. It is
// derived from wall-clock time only; an elapsed window reads as zero but
// never completes the cycle on its own.
func CycleRemainingTime(startTime time.Time, now time.Time) RemainingTime {
	deadline := startTime.Add(models.CycleDuration)
	left := deadline.Sub(now)
	if left <= 0 {
		return RemainingTime{}
	}

	totalSeconds := int(left / time.Second)
	return RemainingTime{
		Hours:   totalSeconds / 3600,
		Minutes: (totalSeconds % 3600) / 60,
		Seconds: totalSeconds % 60,
	}
}
