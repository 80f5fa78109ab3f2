package models

import "strconv"

// Severity is the worst injury class present in a crash.
type Severity string

const (
	SeverityNoInjury Severity = "NoInjury"
	SeverityMinor    Severity = "Minor"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	SeverityFatal    Severity = "Fatal"
)

// SeverityCodes maps each severity to its ordinal training code.
var SeverityCodes = map[Severity]int{
	SeverityNoInjury: 0,
	SeverityMinor:    1,
	SeverityModerate: 2,
	SeveritySevere:   3,
	SeverityFatal:    4,
}

// SeverityByCode is the inverse of SeverityCodes, indexed by code.
var SeverityByCode = []Severity{
	SeverityNoInjury, SeverityMinor, SeverityModerate, SeveritySevere, SeverityFatal,
}

// Code returns the ordinal code, or -1 for an unknown severity.
func (s Severity) Code() int {
	if c, ok := SeverityCodes[s]; ok {
		return c
	}
	return -1
}

// TargetColumn names the single column of the label files.
const TargetColumn = "Severity_Code"

// FeatureColumns is the column order of X_train.csv and X_test.csv.
var FeatureColumns = []string{
	"PartyType_Code", "Sobriety_Code", "Age", "PrimaryCollisionFactor_Code",
	"CollisionType_Code", "VehicleDamage_Code", "MovementPrecedingCollision_Code",
	"ViolationCode", "CrashTime", "Distance",
}

// FeatureRow is one row of the feature matrix.
type FeatureRow struct {
	PartyTypeCode                  int
	SobrietyCode                   int
	Age                            int
	PrimaryCollisionFactorCode     int
	CollisionTypeCode              int
	VehicleDamageCode              int
	MovementPrecedingCollisionCode int
	ViolationCode                  int
	CrashHour                      int
	Distance                       float64
}

// NewFeatureRow selects the feature columns of a merged record.
func NewFeatureRow(m *MergedRecord) *FeatureRow {
	return &FeatureRow{
		PartyTypeCode:                  m.Party.PartyTypeCode,
		SobrietyCode:                   m.Party.SobrietyCode,
		Age:                            m.Party.Age,
		PrimaryCollisionFactorCode:     m.Crash.PrimaryCollisionFactorCode,
		CollisionTypeCode:              m.Crash.CollisionTypeCode,
		VehicleDamageCode:              m.Party.VehicleDamageCode,
		MovementPrecedingCollisionCode: m.Party.MovementPrecedingCollisionCode,
		ViolationCode:                  m.Party.ViolationCode,
		CrashHour:                      m.Crash.CrashHour,
		Distance:                       m.Crash.Distance,
	}
}

func (f *FeatureRow) CSVHeader() []string { return FeatureColumns }

func (f *FeatureRow) CSVRow() []string {
	return []string{
		strconv.Itoa(f.PartyTypeCode),
		strconv.Itoa(f.SobrietyCode),
		strconv.Itoa(f.Age),
		strconv.Itoa(f.PrimaryCollisionFactorCode),
		strconv.Itoa(f.CollisionTypeCode),
		strconv.Itoa(f.VehicleDamageCode),
		strconv.Itoa(f.MovementPrecedingCollisionCode),
		strconv.Itoa(f.ViolationCode),
		strconv.Itoa(f.CrashHour),
		FormatFloat(f.Distance),
	}
}

// Label is one row of a target file.
type Label struct {
	SeverityCode int
}

func (l Label) CSVHeader() []string { return []string{TargetColumn} }

func (l Label) CSVRow() []string { return []string{strconv.Itoa(l.SeverityCode)} }

// Example is a labeled feature row ready for splitting.
type Example struct {
	Features *FeatureRow
	Label    Label
}

// DeriveSeverity returns the first class, from Fatal down to Minor, whose
// count is positive, or NoInjury when none is.
func DeriveSeverity(c InjuryCounts) Severity {
	switch {
	case c.Fatal > 0:
		return SeverityFatal
	case c.Severe > 0:
		return SeveritySevere
	case c.Moderate > 0:
		return SeverityModerate
	case c.Minor > 0:
		return SeverityMinor
	default:
		return SeverityNoInjury
	}
}
