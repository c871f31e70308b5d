package services

import "github.com/terraincognita07/renalog/internal/models"

const (
	ClassificationNormal   = "normal"
	ClassificationAbnormal = "abnormal"
)

// Protein24hMaxMg is the normal-value ceiling for protein excreted over a
// full collection window, in milligrams.
const Protein24hMaxMg = 150.0

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains treats the range as a closed interval: both boundaries count
// as inside.
func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

type NormalRanges struct {
	Protein24hMax   float64 `json:"protein24hMax"`
	Creatinine      Range   `json:"creatinine"`
	SpecificGravity Range   `json:"specificGravity"`
	PH              Range   `json:"ph"`
}

var (
	creatinineRangeMale   = Range{Min: 53, Max: 106}
	creatinineRangeFemale = Range{Min: 44, Max: 97}
	specificGravityRange  = Range{Min: 1.003, Max: 1.030}
	phRange               = Range{Min: 4.6, Max: 8.0}
)

// RangesForSex returns the clinically normal ranges for the given sex.
// The creatinine band is the only sex-dependent one; an unspecified sex
// falls back to the narrower female band as the conservative default.
func RangesForSex(sex string) NormalRanges {
	creatinine := creatinineRangeFemale
	if sex == models.SexMale {
		creatinine = creatinineRangeMale
	}
	return NormalRanges{
		Protein24hMax:   Protein24hMaxMg,
		Creatinine:      creatinine,
		SpecificGravity: specificGravityRange,
		PH:              phRange,
	}
}

func Classify(value float64, r Range) string {
	if r.Contains(value) {
		return ClassificationNormal
	}
	return ClassificationAbnormal
}

// ClassifyProtein24h classifies a derived 24-hour protein total given in
// grams against the milligram ceiling.
func ClassifyProtein24h(grams float64) string {
	if grams*1000 <= Protein24hMaxMg {
		return ClassificationNormal
	}
	return ClassificationAbnormal
}
