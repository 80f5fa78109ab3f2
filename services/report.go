package services

import (
	"fmt"
	"math"
	"strings"

	"crash-severity-prep/models"
	"crash-severity-prep/utils"
)

// ReportService summarizes a pipeline run for the console.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate computes class distributions for the full, train and test sets.
func (s *ReportService) Generate(sum *models.RunSummary) *models.DatasetReport {
	r := &models.DatasetReport{
		RunID:     sum.RunID,
		Join:      sum.Join,
		TotalRows: len(sum.AllLabels),
		TrainRows: sum.TrainRows,
		TestRows:  sum.TestRows,
		Exported:  sum.Exported,
	}

	r.Distribution = shares(sum.AllLabels)
	r.TrainShares = shares(sum.TrainLabel)
	r.TestShares = shares(sum.TestLabel)

	for i := range r.Distribution {
		full := r.Distribution[i].Share
		for _, part := range [][]models.ClassShare{r.TrainShares, r.TestShares} {
			if gap := math.Abs(part[i].Share - full); gap > r.MaxShareGap {
				r.MaxShareGap = gap
			}
		}
	}
	if r.MaxShareGap > 0.01 {
		s.logger.Warn("[report] Class proportions drift by %.4f between splits", r.MaxShareGap)
	}
	return r
}

func shares(labels []int) []models.ClassShare {
	out := make([]models.ClassShare, len(models.SeverityByCode))
	for code, sev := range models.SeverityByCode {
		out[code].Severity = sev
	}
	for _, l := range labels {
		if l >= 0 && l < len(out) {
			out[l].Count++
		}
	}
	if len(labels) > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Count) / float64(len(labels))
		}
	}
	return out
}

func (s *ReportService) Print(r *models.DatasetReport) {
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  CRASH SEVERITY DATASET SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Join\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Crash rows               : \033[1m%d\033[0m\n", r.Join.Crashes)
	fmt.Printf("  Party rows               : \033[1m%d\033[0m\n", r.Join.Parties)
	fmt.Printf("  Merged rows              : \033[1m%d\033[0m\n", r.Join.Merged)
	fmt.Printf("  Crashes without parties  : %d\n", r.Join.UnmatchedCrashes)
	fmt.Printf("  Parties without crashes  : %d\n", r.Join.UnmatchedParties)
	fmt.Printf("  Max parties per crash    : %d\n", r.Join.MaxFanOut)
	fmt.Println()

	fmt.Printf("\033[1;33m  Severity Distribution\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %-10s %10s %10s %10s\n", "Class", "All", "Train", "Test")
	for i, c := range r.Distribution {
		fmt.Printf("  %-10s %9.2f%% %9.2f%% %9.2f%%   (%d)\n",
			c.Severity, c.Share*100, r.TrainShares[i].Share*100, r.TestShares[i].Share*100, c.Count)
	}
	fmt.Printf("  Largest proportion gap   : %.4f\n", r.MaxShareGap)
	fmt.Println()

	fmt.Printf("\033[1;33m  Split\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total rows : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Printf("  Train rows : \033[1;32m%d\033[0m\n", r.TrainRows)
	fmt.Printf("  Test rows  : \033[1;32m%d\033[0m\n", r.TestRows)
	if r.Exported {
		fmt.Printf("  Exported to PostgreSQL under run %s\n", r.RunID)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
