package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Scorer maps a review unit to a compound score in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// VADER scores text with the shared lexicon analyzer. The analyzer only reads
// its lexicon, so one instance serves concurrent requests.
type VADER struct {
	StripMarkdown bool
}

func NewVADER(stripMarkdown bool) VADER {
	return VADER{StripMarkdown: stripMarkdown}
}

func (v VADER) Score(text string) float64 {
	if v.StripMarkdown {
		text = ConvertMarkdownToText(text)
	}
	if strings.TrimSpace(text) == "" {
		return 0
	}

	return analyzer.PolarityScores(text).Compound
}
