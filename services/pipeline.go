package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"crash-severity-prep/config"
	"crash-severity-prep/lookup"
	"crash-severity-prep/models"
	"crash-severity-prep/storage"
	"crash-severity-prep/utils"
)

// Output file names inside the processed directory.
const (
	ProcessedCrashesFile  = "processed_crashes.csv"
	ProcessedVehiclesFile = "processed_vehicles.csv"
	MergedFile            = "merged_dataset.csv"
	XTrainFile            = "X_train.csv"
	XTestFile             = "X_test.csv"
	YTrainFile            = "y_train.csv"
	YTestFile             = "y_test.csv"
)

// Pipeline runs the preprocessing and merge/split stages.
type Pipeline struct {
	cfg        *config.Config
	logger     *utils.Logger
	normalizer *Normalizer
	joiner     *Joiner
	labeler    *Labeler
	exporter   storage.MergedWriter
}

// NewPipeline wires the stage services with the given lookup tables.
func NewPipeline(cfg *config.Config, logger *utils.Logger, tables lookup.Tables) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		normalizer: NewNormalizer(logger, tables),
		joiner:     NewJoiner(logger),
		labeler:    NewLabeler(logger),
	}
}

// WithExporter sets a backend that receives the merged records of each run.
func (p *Pipeline) WithExporter(w storage.MergedWriter) *Pipeline {
	p.exporter = w
	return p
}

// Run executes both stages in order.
func (p *Pipeline) Run() (*models.RunSummary, error) {
	if err := p.Preprocess(); err != nil {
		return nil, err
	}
	return p.MergeAndSplit()
}

// Preprocess normalizes every raw extract and writes the combined crash and
// vehicle tables. All inputs are read and normalized before anything is written.
func (p *Pipeline) Preprocess() error {
	var crashGroups [][]*models.Crash
	for _, path := range p.cfg.CrashPaths() {
		t, err := storage.ReadTable(path)
		if err != nil {
			return err
		}
		crashes, _, err := p.normalizer.NormalizeCrashes(t)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		crashGroups = append(crashGroups, crashes)
	}

	var partyGroups [][]*models.Party
	for _, path := range p.cfg.VehiclePaths() {
		t, err := storage.ReadTable(path)
		if err != nil {
			return err
		}
		parties, _, err := p.normalizer.NormalizeParties(t)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		partyGroups = append(partyGroups, parties)
	}

	crashes := Concat(crashGroups...)
	parties := Concat(partyGroups...)

	if err := storage.WriteFile(p.cfg.Processed(ProcessedCrashesFile), models.CrashColumns, crashes); err != nil {
		return err
	}
	if err := storage.WriteFile(p.cfg.Processed(ProcessedVehiclesFile), models.PartyColumns, parties); err != nil {
		return err
	}

	p.logger.Info("[preprocess] Wrote %d crashes and %d parties to %s",
		len(crashes), len(parties), p.cfg.ProcessedDir)
	return nil
}

// MergeAndSplit joins the processed tables, derives severity labels and
// writes the stratified train/test split. The optional export runs before
// any output of this stage is written.
func (p *Pipeline) MergeAndSplit() (*models.RunSummary, error) {
	crashTable, err := storage.ReadTable(p.cfg.Processed(ProcessedCrashesFile))
	if err != nil {
		return nil, err
	}
	crashes, err := decodeCrashes(crashTable)
	if err != nil {
		return nil, err
	}

	partyTable, err := storage.ReadTable(p.cfg.Processed(ProcessedVehiclesFile))
	if err != nil {
		return nil, err
	}
	parties, err := decodeParties(partyTable)
	if err != nil {
		return nil, err
	}

	merged, joinStats := p.joiner.Join(crashes, parties)
	examples := p.labeler.Label(merged)

	labels := make([]int, len(examples))
	for i, ex := range examples {
		labels[i] = ex.Label.SeverityCode
	}
	split, err := StratifiedSplit(labels, p.cfg.TestSize, p.cfg.SplitSeed)
	if err != nil {
		return nil, err
	}

	xTrain, yTrain := pick(examples, split.Train)
	xTest, yTest := pick(examples, split.Test)

	summary := &models.RunSummary{
		RunID:      uuid.NewString(),
		Join:       joinStats,
		TrainRows:  len(split.Train),
		TestRows:   len(split.Test),
		AllLabels:  labels,
		TrainLabel: labelCodes(yTrain),
		TestLabel:  labelCodes(yTest),
	}

	// export first: a failed export must not leave split files behind
	if p.exporter != nil {
		if err := p.exporter.Write(summary.RunID, merged); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		summary.Exported = true
		p.logger.Info("[export] Merged records stored under run %s", summary.RunID)
	}

	if err := storage.WriteFile(p.cfg.Processed(MergedFile), models.MergedColumns, merged); err != nil {
		return nil, err
	}
	outputs := []struct {
		name  string
		write func(path string) error
	}{
		{XTrainFile, func(path string) error { return storage.WriteFile(path, models.FeatureColumns, xTrain) }},
		{XTestFile, func(path string) error { return storage.WriteFile(path, models.FeatureColumns, xTest) }},
		{YTrainFile, func(path string) error { return storage.WriteFile(path, labelHeader, yTrain) }},
		{YTestFile, func(path string) error { return storage.WriteFile(path, labelHeader, yTest) }},
	}
	for _, o := range outputs {
		if err := o.write(p.cfg.Processed(o.name)); err != nil {
			return nil, err
		}
	}
	p.logger.Info("[split] %d train / %d test rows written to %s",
		len(split.Train), len(split.Test), p.cfg.ProcessedDir)

	return summary, nil
}

var labelHeader = []string{models.TargetColumn}

func pick(examples []models.Example, idx []int) ([]*models.FeatureRow, []models.Label) {
	x := make([]*models.FeatureRow, len(idx))
	y := make([]models.Label, len(idx))
	for i, j := range idx {
		x[i] = examples[j].Features
		y[i] = examples[j].Label
	}
	return x, y
}

func labelCodes(labels []models.Label) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = l.SeverityCode
	}
	return out
}

// rowDecoder reads typed cells from a processed table, remembering the first
// malformed cell.
type rowDecoder struct {
	t   *storage.Table
	idx map[string]int
	row []string
	err error
}

func newRowDecoder(t *storage.Table, cols []string) (*rowDecoder, error) {
	idx, err := t.Indexes(cols...)
	if err != nil {
		return nil, err
	}
	return &rowDecoder{t: t, idx: idx}, nil
}

func (d *rowDecoder) str(col string) string { return d.row[d.idx[col]] }

func (d *rowDecoder) integer(col string) int {
	v, err := strconv.Atoi(d.str(col))
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s: malformed %s %q: %w", d.t.Source, col, d.str(col), err)
	}
	return v
}

func (d *rowDecoder) number(col string) float64 {
	v, err := strconv.ParseFloat(d.str(col), 64)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s: malformed %s %q: %w", d.t.Source, col, d.str(col), err)
	}
	return v
}

func decodeCrashes(t *storage.Table) ([]*models.Crash, error) {
	d, err := newRowDecoder(t, models.CrashColumns)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Crash, 0, t.Len())
	for _, row := range t.Rows {
		d.row = row
		out = append(out, &models.Crash{
			CrashFactID: d.str("CrashFactId"),
			Name:        d.str("Name"),
			Injuries: models.InjuryCounts{
				Minor:    d.integer("MinorInjuries"),
				Moderate: d.integer("ModerateInjuries"),
				Severe:   d.integer("SevereInjuries"),
				Fatal:    d.integer("FatalInjuries"),
			},
			PrimaryCollisionFactorCode: d.integer("PrimaryCollisionFactor_Code"),
			CollisionTypeCode:          d.integer("CollisionType_Code"),
			Distance:                   d.number("Distance"),
			CrashHour:                  d.integer("CrashTime"),
			SpeedingFlag:               d.integer("SpeedingFlag"),
		})
		if d.err != nil {
			return nil, d.err
		}
	}
	return out, nil
}

func decodeParties(t *storage.Table) ([]*models.Party, error) {
	d, err := newRowDecoder(t, models.PartyColumns)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Party, 0, t.Len())
	for _, row := range t.Rows {
		d.row = row
		out = append(out, &models.Party{
			CrashName:                      d.str("CrashName"),
			PartyTypeCode:                  d.integer("PartyType_Code"),
			Age:                            d.integer("Age"),
			SobrietyCode:                   d.integer("Sobriety_Code"),
			VehicleDamageCode:              d.integer("VehicleDamage_Code"),
			MovementPrecedingCollisionCode: d.integer("MovementPrecedingCollision_Code"),
			ViolationCode:                  d.integer("ViolationCode"),
			AgeGroup:                       d.integer("AgeGroup"),
		})
		if d.err != nil {
			return nil, d.err
		}
	}
	return out, nil
}
