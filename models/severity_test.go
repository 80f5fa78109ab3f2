package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSeverityPriority(t *testing.T) {
	tests := []struct {
		in   InjuryCounts
		want Severity
		code int
	}{
		{InjuryCounts{}, SeverityNoInjury, 0},
		{InjuryCounts{Minor: 3}, SeverityMinor, 1},
		{InjuryCounts{Minor: 5, Moderate: 1}, SeverityModerate, 2},
		{InjuryCounts{Severe: 1}, SeveritySevere, 3},
		{InjuryCounts{Minor: 9, Moderate: 9, Severe: 9, Fatal: 1}, SeverityFatal, 4},
		{InjuryCounts{Fatal: -1, Minor: 1}, SeverityMinor, 1},
	}

	for _, tt := range tests {
		got := DeriveSeverity(tt.in)
		if got != tt.want || got.Code() != tt.code {
			t.Errorf("DeriveSeverity(%+v) = %s (%d); want %s (%d)", tt.in, got, got.Code(), tt.want, tt.code)
		}
	}
}

func TestDeriveSeverityExhaustive(t *testing.T) {
	// every combination of zero/positive counts
	for mask := 0; mask < 16; mask++ {
		c := InjuryCounts{Minor: mask & 1, Moderate: mask >> 1 & 1, Severe: mask >> 2 & 1, Fatal: mask >> 3 & 1}
		var want Severity
		switch {
		case c.Fatal > 0:
			want = SeverityFatal
		case c.Severe > 0:
			want = SeveritySevere
		case c.Moderate > 0:
			want = SeverityModerate
		case c.Minor > 0:
			want = SeverityMinor
		default:
			want = SeverityNoInjury
		}
		assert.Equal(t, want, DeriveSeverity(c), "mask %04b", mask)
	}
}

func TestSeverityCodesBijective(t *testing.T) {
	assert.Len(t, SeverityCodes, 5)
	for code, sev := range SeverityByCode {
		assert.Equal(t, code, sev.Code())
	}
	assert.Equal(t, -1, Severity("Catastrophic").Code())
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:      "0.0",
		12:     "12.0",
		12.5:   "12.5",
		-3:     "-3.0",
		0.0001: "0.0001",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}

func TestFeatureRowColumns(t *testing.T) {
	m := &MergedRecord{
		Crash: &Crash{PrimaryCollisionFactorCode: 5, CollisionTypeCode: 6, Distance: 40, CrashHour: 17},
		Party: &Party{PartyTypeCode: 3, SobrietyCode: 1, Age: 34, VehicleDamageCode: 2,
			MovementPrecedingCollisionCode: 0, ViolationCode: 22350},
	}
	f := NewFeatureRow(m)
	assert.Equal(t, len(FeatureColumns), len(f.CSVRow()))
	assert.Equal(t, []string{"3", "1", "34", "5", "6", "2", "0", "22350", "17", "40.0"}, f.CSVRow())
	assert.NotContains(t, f.CSVHeader(), TargetColumn)
}

func TestMergedRowWidth(t *testing.T) {
	m := &MergedRecord{Crash: &Crash{}, Party: &Party{}}
	assert.Equal(t, len(m.CSVHeader()), len(m.CSVRow()))
}

func TestMissingColumnError(t *testing.T) {
	var err error = &MissingColumnError{Source: "crashes.csv", Column: "CollisionType"}
	wrapped := fmt.Errorf("normalize: %w", err)

	assert.True(t, errors.Is(wrapped, ErrMissingColumn))
	assert.Contains(t, wrapped.Error(), "CollisionType")
	assert.Contains(t, wrapped.Error(), "crashes.csv")

	var mce *MissingColumnError
	assert.True(t, errors.As(wrapped, &mce))
	assert.Equal(t, "CollisionType", mce.Column)
}
