package models

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Labels lists every classification label in chart order.
var Labels = []SentimentLabel{LabelPositive, LabelNeutral, LabelNegative}

type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c SentimentCounts) Get(label SentimentLabel) int {
	switch label {
	case LabelPositive:
		return c.Positive
	case LabelNegative:
		return c.Negative
	default:
		return c.Neutral
	}
}

func (c SentimentCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

type AnalysisResponse struct {
	Image           string          `json:"image"`
	SentimentCounts SentimentCounts `json:"sentiment_counts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
