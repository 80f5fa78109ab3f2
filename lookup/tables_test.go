package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTableSizes(t *testing.T) {
	tables := Default()

	tests := []struct {
		table    CodeTable
		entries  int
		max      int
		fallback int
	}{
		{tables.Sobriety, 9, 8, 0},
		{tables.PartyType, 19, 18, 18},
		{tables.PrimaryCollisionFactor, 7, 6, 4},
		{tables.CollisionType, 9, 8, 3},
		{tables.VehicleDamage, 6, 5, 5},
		{tables.MovementPrecedingCollision, 11, 10, 10},
	}

	for _, tt := range tests {
		assert.Len(t, tt.table.Codes, tt.entries, tt.table.Name)
		assert.Equal(t, tt.fallback, tt.table.Default, tt.table.Name)
		assert.LessOrEqual(t, tt.table.Default, tt.max, tt.table.Name)

		// codes are a dense 0..max range
		seen := make(map[int]bool)
		largest := -1
		for _, c := range tt.table.Codes {
			seen[c] = true
			if c > largest {
				largest = c
			}
		}
		assert.Equal(t, tt.max, largest, tt.table.Name)
		for c := 0; c <= tt.max; c++ {
			assert.True(t, seen[c], "%s: code %d unused", tt.table.Name, c)
		}
	}
}

func TestCodeFallback(t *testing.T) {
	tables := Default()

	tests := []struct {
		table CodeTable
		in    string
		want  int
		found bool
	}{
		{tables.Sobriety, "", 0, false},
		{tables.Sobriety, "Under Drug Influence", 8, true},
		{tables.PartyType, "Spaceship", 18, false},
		{tables.PartyType, "Car", 3, true},
		{tables.PartyType, "car", 18, false},
		{tables.PrimaryCollisionFactor, "Violation Driver 2", 6, true},
		{tables.PrimaryCollisionFactor, "", 4, false},
		{tables.CollisionType, "Vehicle/Pedestrian", 8, true},
		{tables.CollisionType, "Rollover", 3, false},
		{tables.VehicleDamage, "Totaled", 4, true},
		{tables.VehicleDamage, "Scratched", 5, false},
		{tables.MovementPrecedingCollision, "U-Turn", 7, true},
		{tables.MovementPrecedingCollision, "Drifting", 10, false},
	}

	for _, tt := range tests {
		got, found := tt.table.Code(tt.in)
		if got != tt.want || found != tt.found {
			t.Errorf("%s.Code(%q) = (%d, %v); want (%d, %v)",
				tt.table.Name, tt.in, got, found, tt.want, tt.found)
		}
	}
}

func TestDefaultReturnsFreshMaps(t *testing.T) {
	a := Default()
	a.PartyType.Codes["Spaceship"] = 99

	b := Default()
	_, found := b.PartyType.Code("Spaceship")
	assert.False(t, found)
}
