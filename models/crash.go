package models

import (
	"strconv"
	"strings"
)

// CSVRecord is implemented by every row type the pipeline writes to disk.
type CSVRecord interface {
	CSVHeader() []string
	CSVRow() []string
}

// InjuryCounts holds the four per-severity injury totals of a crash.
type InjuryCounts struct {
	Minor    int
	Moderate int
	Severe   int
	Fatal    int
}

// Crash is one normalized collision event from a crash extract.
type Crash struct {
	CrashFactID                string
	Name                       string
	Injuries                   InjuryCounts
	PrimaryCollisionFactorCode int
	CollisionTypeCode          int
	Distance                   float64
	CrashHour                  int
	SpeedingFlag               int
}

// CrashColumns is the column order of processed_crashes.csv.
var CrashColumns = []string{
	"CrashFactId", "Name", "MinorInjuries", "ModerateInjuries", "SevereInjuries",
	"FatalInjuries", "PrimaryCollisionFactor_Code", "CollisionType_Code", "Distance",
	"CrashTime", "SpeedingFlag",
}

func (c *Crash) CSVHeader() []string { return CrashColumns }

func (c *Crash) CSVRow() []string {
	return []string{
		c.CrashFactID,
		c.Name,
		strconv.Itoa(c.Injuries.Minor),
		strconv.Itoa(c.Injuries.Moderate),
		strconv.Itoa(c.Injuries.Severe),
		strconv.Itoa(c.Injuries.Fatal),
		strconv.Itoa(c.PrimaryCollisionFactorCode),
		strconv.Itoa(c.CollisionTypeCode),
		FormatFloat(c.Distance),
		strconv.Itoa(c.CrashHour),
		strconv.Itoa(c.SpeedingFlag),
	}
}

// Party is one normalized vehicle or participant involved in a crash.
type Party struct {
	CrashName                      string
	PartyTypeCode                  int
	Age                            int
	SobrietyCode                   int
	VehicleDamageCode              int
	MovementPrecedingCollisionCode int
	ViolationCode                  int
	AgeGroup                       int
}

// PartyColumns is the column order of processed_vehicles.csv.
var PartyColumns = []string{
	"CrashName", "PartyType_Code", "Age", "Sobriety_Code", "VehicleDamage_Code",
	"MovementPrecedingCollision_Code", "ViolationCode", "AgeGroup",
}

func (p *Party) CSVHeader() []string { return PartyColumns }

func (p *Party) CSVRow() []string {
	return []string{
		p.CrashName,
		strconv.Itoa(p.PartyTypeCode),
		strconv.Itoa(p.Age),
		strconv.Itoa(p.SobrietyCode),
		strconv.Itoa(p.VehicleDamageCode),
		strconv.Itoa(p.MovementPrecedingCollisionCode),
		strconv.Itoa(p.ViolationCode),
		strconv.Itoa(p.AgeGroup),
	}
}

// MergedRecord pairs a crash with one of its parties. Crash is shared by
// every record produced from the same crash row.
type MergedRecord struct {
	Crash *Crash
	Party *Party
}

// MergedColumns is the column order of merged_dataset.csv.
var MergedColumns = append(append([]string{}, CrashColumns...), PartyColumns...)

func (m *MergedRecord) CSVHeader() []string { return MergedColumns }

func (m *MergedRecord) CSVRow() []string {
	return append(m.Crash.CSVRow(), m.Party.CSVRow()...)
}

// FormatFloat renders a float the way the training tooling expects it:
// shortest representation, always with a decimal part.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
