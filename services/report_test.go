package services

import (
	"testing"

	"crash-severity-prep/models"
)

func sampleSummary() *models.RunSummary {
	return &models.RunSummary{
		RunID:      "run-1",
		Join:       models.JoinStats{Crashes: 8, Parties: 11, Merged: 10, MaxFanOut: 3},
		TrainRows:  8,
		TestRows:   2,
		AllLabels:  []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		TrainLabel: []int{0, 0, 0, 0, 1, 1, 1, 1},
		TestLabel:  []int{0, 1},
	}
}

func TestReportDistribution(t *testing.T) {
	svc := NewReportService(newTestLogger())
	r := svc.Generate(sampleSummary())

	if r.TotalRows != 10 {
		t.Errorf("TotalRows: got %d, want 10", r.TotalRows)
	}
	if len(r.Distribution) != 5 {
		t.Fatalf("Distribution len: got %d, want 5", len(r.Distribution))
	}
	if r.Distribution[0].Share != 0.5 || r.Distribution[1].Count != 5 {
		t.Errorf("unexpected distribution: %+v", r.Distribution[:2])
	}
	if r.Distribution[4].Severity != models.SeverityFatal || r.Distribution[4].Count != 0 {
		t.Errorf("Fatal entry: got %+v", r.Distribution[4])
	}
	if r.MaxShareGap != 0 {
		t.Errorf("MaxShareGap: got %.4f, want 0", r.MaxShareGap)
	}
}

func TestReportShareGap(t *testing.T) {
	sum := sampleSummary()
	sum.TestLabel = []int{0, 0}

	r := NewReportService(newTestLogger()).Generate(sum)
	if r.MaxShareGap != 0.5 {
		t.Errorf("MaxShareGap: got %.4f, want 0.5", r.MaxShareGap)
	}
}

func TestReportEmptyInput(t *testing.T) {
	r := NewReportService(newTestLogger()).Generate(&models.RunSummary{})
	if r.TotalRows != 0 || r.MaxShareGap != 0 {
		t.Errorf("expected an empty report, got %+v", r)
	}
}
