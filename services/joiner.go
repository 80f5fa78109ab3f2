package services

import (
	"crash-severity-prep/models"
	"crash-severity-prep/utils"
)

// Concat appends groups in order without removing duplicates.
func Concat[T any](groups ...[]T) []T {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]T, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Joiner matches crash records to their party records.
type Joiner struct {
	logger *utils.Logger
}

func NewJoiner(logger *utils.Logger) *Joiner {
	return &Joiner{logger: logger}
}

// Join inner-joins crashes to parties on Crash.Name == Party.CrashName.
// Output follows crash order, then party order within each crash. Empty
// keys never match, not even each other; dataframe merges that pair
// missing keys with one another would emit extra rows here.
func (j *Joiner) Join(crashes []*models.Crash, parties []*models.Party) ([]*models.MergedRecord, models.JoinStats) {
	stats := models.JoinStats{Crashes: len(crashes), Parties: len(parties)}

	byCrash := make(map[string][]*models.Party)
	for _, p := range parties {
		if p.CrashName == "" {
			continue
		}
		byCrash[p.CrashName] = append(byCrash[p.CrashName], p)
	}

	matchedKeys := make(map[string]struct{})
	var merged []*models.MergedRecord

	for _, c := range crashes {
		matches := byCrash[c.Name]
		if c.Name == "" || len(matches) == 0 {
			stats.UnmatchedCrashes++
			continue
		}
		matchedKeys[c.Name] = struct{}{}
		if len(matches) > stats.MaxFanOut {
			stats.MaxFanOut = len(matches)
		}
		for _, p := range matches {
			merged = append(merged, &models.MergedRecord{Crash: c, Party: p})
		}
	}

	for _, p := range parties {
		if _, ok := matchedKeys[p.CrashName]; !ok || p.CrashName == "" {
			stats.UnmatchedParties++
		}
	}
	stats.Merged = len(merged)

	j.logger.Info("[join] %d crashes × %d parties → %d merged rows (max fan-out %d)",
		stats.Crashes, stats.Parties, stats.Merged, stats.MaxFanOut)
	if stats.UnmatchedCrashes > 0 || stats.UnmatchedParties > 0 {
		j.logger.Warn("[join] Dropped %d crashes without parties and %d parties without crashes",
			stats.UnmatchedCrashes, stats.UnmatchedParties)
	}
	return merged, stats
}
