package sentiment

import (
	"sync"

	"github.com/spacesedan/sentilens/internal/models"
)

// Aggregator tallies classified units for a single request. Record is the
// only way to change the counts.
type Aggregator struct {
	counts models.SentimentCounts
	mu     sync.Mutex
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Record(label models.SentimentLabel) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch label {
	case models.LabelPositive:
		a.counts.Positive++
	case models.LabelNegative:
		a.counts.Negative++
	default:
		a.counts.Neutral++
	}
}

// Counts returns a snapshot of the tally.
func (a *Aggregator) Counts() models.SentimentCounts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts
}
