package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"crash-severity-prep/lookup"
	"crash-severity-prep/models"
	"crash-severity-prep/storage"
	"crash-severity-prep/utils"
)

// Source columns read from the raw extracts.
const (
	colCrashFactID            = "CrashFactId"
	colName                   = "Name"
	colMinorInjuries          = "MinorInjuries"
	colModerateInjuries       = "ModerateInjuries"
	colSevereInjuries         = "SevereInjuries"
	colFatalInjuries          = "FatalInjuries"
	colCrashDateTime          = "CrashDateTime"
	colPrimaryCollisionFactor = "PrimaryCollisionFactor"
	colCollisionType          = "CollisionType"
	colDistance               = "Distance"
	colSpeedingFlag           = "SpeedingFlag"

	colCrashName                  = "CrashName"
	colPartyType                  = "PartyType"
	colAge                        = "Age"
	colSobriety                   = "Sobriety"
	colVehicleDamage              = "VehicleDamage"
	colMovementPrecedingCollision = "MovementPrecedingCollision"
	colViolationCode              = "ViolationCode"
)

// crashColumns lists required crash columns in the order they are checked.
var crashColumns = []string{
	colCrashDateTime, colPrimaryCollisionFactor, colCollisionType, colDistance,
	colCrashFactID, colName, colMinorInjuries, colModerateInjuries,
	colSevereInjuries, colFatalInjuries,
}

var partyColumns = []string{
	colCrashName, colPartyType, colAge, colSobriety, colVehicleDamage,
	colMovementPrecedingCollision, colViolationCode,
}

// violationSentinels are rewritten to "0" before numeric coercion.
var violationSentinels = map[string]struct{}{
	"Unknown":        {},
	"Not Applicable": {},
}

// ageGroupUpper holds the inclusive upper bounds of the age buckets; the
// lower bound of the first bucket is exclusive -1.
var ageGroupUpper = []int{18, 30, 45, 60, 1000}

// NormalizeStats counts the values a normalization pass had to default.
type NormalizeStats struct {
	Rows        int
	Unmapped    map[string]int // non-empty category values absent from their table
	Missing     map[string]int // empty cells
	Unparseable map[string]int // non-empty cells that failed numeric or time coercion
}

func newNormalizeStats() *NormalizeStats {
	return &NormalizeStats{
		Unmapped:    make(map[string]int),
		Missing:     make(map[string]int),
		Unparseable: make(map[string]int),
	}
}

// Normalizer turns raw crash and party extracts into coded records.
type Normalizer struct {
	logger *utils.Logger
	tables lookup.Tables
}

// NewNormalizer creates a Normalizer using the given lookup tables.
func NewNormalizer(logger *utils.Logger, tables lookup.Tables) *Normalizer {
	return &Normalizer{logger: logger, tables: tables}
}

// NormalizeCrashes encodes every row of a raw crash table. It fails before
// producing any record when a required column is absent.
func (n *Normalizer) NormalizeCrashes(t *storage.Table) ([]*models.Crash, *NormalizeStats, error) {
	idx, err := t.Indexes(crashColumns...)
	if err != nil {
		return nil, nil, err
	}
	speedIdx := -1
	if t.Has(colSpeedingFlag) {
		speedIdx, _ = t.Index(colSpeedingFlag)
	} else {
		n.logger.Warn("[normalize] %s has no %s column, defaulting it to 0", t.Source, colSpeedingFlag)
	}

	stats := newNormalizeStats()
	result := make([]*models.Crash, 0, t.Len())

	for _, row := range t.Rows {
		c := &models.Crash{
			CrashFactID: row[idx[colCrashFactID]],
			Name:        row[idx[colName]],
			Injuries: models.InjuryCounts{
				Minor:    stats.count(colMinorInjuries, row[idx[colMinorInjuries]]),
				Moderate: stats.count(colModerateInjuries, row[idx[colModerateInjuries]]),
				Severe:   stats.count(colSevereInjuries, row[idx[colSevereInjuries]]),
				Fatal:    stats.count(colFatalInjuries, row[idx[colFatalInjuries]]),
			},
			PrimaryCollisionFactorCode: stats.code(n.tables.PrimaryCollisionFactor, row[idx[colPrimaryCollisionFactor]]),
			CollisionTypeCode:          stats.code(n.tables.CollisionType, row[idx[colCollisionType]]),
			Distance:                   stats.float(colDistance, row[idx[colDistance]]),
		}

		raw := row[idx[colCrashDateTime]]
		hour, ok := ParseCrashHour(raw)
		if !ok {
			stats.miss(colCrashDateTime, raw)
		}
		c.CrashHour = hour

		if speedIdx >= 0 {
			c.SpeedingFlag = speedingFlag(row[speedIdx])
		}

		result = append(result, c)
	}

	stats.Rows = len(result)
	n.report(t.Source, stats)
	return result, stats, nil
}

// NormalizeParties encodes every row of a raw vehicle/party table.
func (n *Normalizer) NormalizeParties(t *storage.Table) ([]*models.Party, *NormalizeStats, error) {
	idx, err := t.Indexes(partyColumns...)
	if err != nil {
		return nil, nil, err
	}

	stats := newNormalizeStats()
	result := make([]*models.Party, 0, t.Len())

	for _, row := range t.Rows {
		age := stats.integer(colAge, row[idx[colAge]])

		violation := strings.TrimSpace(row[idx[colViolationCode]])
		if _, sentinel := violationSentinels[violation]; sentinel {
			violation = "0"
		}

		result = append(result, &models.Party{
			CrashName:                      row[idx[colCrashName]],
			PartyTypeCode:                  stats.code(n.tables.PartyType, row[idx[colPartyType]]),
			Age:                            age,
			SobrietyCode:                   stats.code(n.tables.Sobriety, row[idx[colSobriety]]),
			VehicleDamageCode:              stats.code(n.tables.VehicleDamage, row[idx[colVehicleDamage]]),
			MovementPrecedingCollisionCode: stats.code(n.tables.MovementPrecedingCollision, row[idx[colMovementPrecedingCollision]]),
			ViolationCode:                  stats.integer(colViolationCode, violation),
			AgeGroup:                       AgeGroup(age),
		})
	}

	stats.Rows = len(result)
	n.report(t.Source, stats)
	return result, stats, nil
}

func (n *Normalizer) report(source string, s *NormalizeStats) {
	n.logger.Info("[normalize] %s: %d rows", source, s.Rows)
	for _, k := range sortedKeys(s.Unmapped) {
		n.logger.Warn("[normalize] %s: %d unmapped %s values set to default code", source, s.Unmapped[k], k)
	}
	for _, k := range sortedKeys(s.Unparseable) {
		n.logger.Warn("[normalize] %s: %d unparseable %s values set to 0", source, s.Unparseable[k], k)
	}
	for _, k := range sortedKeys(s.Missing) {
		n.logger.Debug("[normalize] %s: %d empty %s cells", source, s.Missing[k], k)
	}
}

// ParseCrashHour extracts the hour of day from a crash timestamp, inferring
// its layout. Timestamps without a zone are read as UTC. The second result
// is false, and the hour 0, when the value cannot be parsed.
func ParseCrashHour(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return 0, false
	}
	return ts.Hour(), true
}

// AgeGroup buckets an age into 0..4 (≤18, 19-30, 31-45, 46-60, 61+), or -1
// when it falls outside every bucket.
func AgeGroup(age int) int {
	if age <= -1 {
		return -1
	}
	for i, upper := range ageGroupUpper {
		if age <= upper {
			return i
		}
	}
	return -1
}

func speedingFlag(raw string) int {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "true") || s == "1" {
		return 1
	}
	return 0
}

// code looks v up in table, counting unmapped values.
func (s *NormalizeStats) code(table lookup.CodeTable, v string) int {
	c, found := table.Code(v)
	if !found {
		if v == "" {
			s.Missing[table.Name]++
		} else {
			s.Unmapped[table.Name]++
		}
	}
	return c
}

func (s *NormalizeStats) miss(col, raw string) {
	if strings.TrimSpace(raw) == "" {
		s.Missing[col]++
	} else {
		s.Unparseable[col]++
	}
}

// integer coerces raw to an int, truncating decimal text. Empty or
// unparseable values, and decimal text beyond the int32 range, yield 0.
func (s *NormalizeStats) integer(col, raw string) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		s.Missing[col]++
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		s.Unparseable[col]++
		return 0
	}
	return int(f)
}

// count is integer clamped at zero.
func (s *NormalizeStats) count(col, raw string) int {
	n := s.integer(col, raw)
	if n < 0 {
		s.Unparseable[col]++
		return 0
	}
	return n
}

func (s *NormalizeStats) float(col, raw string) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		s.Missing[col]++
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		s.Unparseable[col]++
		return 0
	}
	return f
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
