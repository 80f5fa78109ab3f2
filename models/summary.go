package models

// JoinStats describes how the crash and party tables matched up.
type JoinStats struct {
	Crashes          int
	Parties          int
	Merged           int
	UnmatchedCrashes int // crash rows with no party row
	UnmatchedParties int // party rows with no crash row
	MaxFanOut        int
}

// RunSummary is what one pipeline run produced.
type RunSummary struct {
	RunID      string
	Join       JoinStats
	TrainRows  int
	TestRows   int
	AllLabels  []int
	TrainLabel []int
	TestLabel  []int
	Exported   bool
}

// ClassShare is the count and proportion of one severity class.
type ClassShare struct {
	Severity Severity
	Count    int
	Share    float64
}

// DatasetReport holds the computed statistics over one run.
type DatasetReport struct {
	RunID        string
	Join         JoinStats
	TotalRows    int
	TrainRows    int
	TestRows     int
	Distribution []ClassShare
	TrainShares  []ClassShare
	TestShares   []ClassShare
	MaxShareGap  float64
	Exported     bool
}
