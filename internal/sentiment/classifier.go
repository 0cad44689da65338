package sentiment

import "github.com/spacesedan/sentilens/internal/models"

// Classify labels a score by its sign. Exactly zero is neutral.
func Classify(score float64) models.SentimentLabel {
	switch {
	case score > 0:
		return models.LabelPositive
	case score < 0:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
