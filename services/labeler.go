package services

import (
	"crash-severity-prep/models"
	"crash-severity-prep/utils"
)

// Labeler derives the severity target and feature row of each merged record.
type Labeler struct {
	logger *utils.Logger
}

func NewLabeler(logger *utils.Logger) *Labeler {
	return &Labeler{logger: logger}
}

// Label returns one example per record, in record order.
func (l *Labeler) Label(records []*models.MergedRecord) []models.Example {
	out := make([]models.Example, len(records))
	counts := make([]int, len(models.SeverityByCode))

	for i, m := range records {
		code := models.DeriveSeverity(m.Crash.Injuries).Code()
		counts[code]++
		out[i] = models.Example{
			Features: models.NewFeatureRow(m),
			Label:    models.Label{SeverityCode: code},
		}
	}

	for code, n := range counts {
		l.logger.Debug("[label] %-8s (code %d): %d rows", models.SeverityByCode[code], code, n)
	}
	return out
}
