package sentiment

import (
	"math"
	"sync"
	"testing"

	"github.com/spacesedan/sentilens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBySign(t *testing.T) {
	cases := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{1, models.LabelPositive},
		{0.0001, models.LabelPositive},
		{math.SmallestNonzeroFloat64, models.LabelPositive},
		{0, models.LabelNeutral},
		{math.Copysign(0, -1), models.LabelNeutral},
		{-math.SmallestNonzeroFloat64, models.LabelNegative},
		{-0.5, models.LabelNegative},
		{-1, models.LabelNegative},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %v", tc.score)
	}
}

func TestVADERScores(t *testing.T) {
	scorer := NewVADER(false)

	pos := scorer.Score("I love this product")
	assert.Greater(t, pos, 0.0)
	assert.LessOrEqual(t, pos, 1.0)

	neg := scorer.Score("terrible experience")
	assert.Less(t, neg, 0.0)
	assert.GreaterOrEqual(t, neg, -1.0)

	assert.Equal(t, 0.0, scorer.Score("   "))
}

func TestVADERIsDeterministic(t *testing.T) {
	scorer := NewVADER(false)
	for _, text := range []string{"great service", "terrible experience", "the box is on the table"} {
		first, firstLabel := scorer.Score(text), Classify(scorer.Score(text))
		second, secondLabel := scorer.Score(text), Classify(scorer.Score(text))
		assert.Equal(t, first, second, text)
		assert.Equal(t, firstLabel, secondLabel, text)
	}
}

func TestConvertMarkdownToText(t *testing.T) {
	in := "# Review\n\nThis is **great**, see [the shop](https://example.com/shop) or https://example.com now"
	out := ConvertMarkdownToText(in)

	assert.Equal(t, "Review This is great, see the shop or now", out)
	assert.NotContains(t, out, "http")
	assert.NotContains(t, out, "*")
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "go to docs ", RemoveLinks("go to [docs](https://example.com) www.example.com"))
}

func TestVADERStripMarkdown(t *testing.T) {
	plain := NewVADER(false).Score("great service")
	stripped := NewVADER(true).Score("**great** service https://example.com")
	assert.Equal(t, plain, stripped)

	assert.Equal(t, 0.0, NewVADER(true).Score("https://example.com"))
}

func TestAggregatorStartsAtZero(t *testing.T) {
	agg := NewAggregator()
	assert.Equal(t, models.SentimentCounts{}, agg.Counts())
	assert.Equal(t, 0, agg.Counts().Total())
}

func TestAggregatorRecord(t *testing.T) {
	agg := NewAggregator()
	agg.Record(models.LabelPositive)
	agg.Record(models.LabelPositive)
	agg.Record(models.LabelNegative)
	agg.Record(models.LabelNeutral)

	counts := agg.Counts()
	assert.Equal(t, models.SentimentCounts{Positive: 2, Neutral: 1, Negative: 1}, counts)
	assert.Equal(t, 2, counts.Get(models.LabelPositive))
	assert.Equal(t, 4, counts.Total())
}

func TestAggregatorConcurrentRecord(t *testing.T) {
	agg := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agg.Record(models.Labels[i%len(models.Labels)])
		}(i)
	}
	wg.Wait()

	counts := agg.Counts()
	require.Equal(t, 300, counts.Total())
	assert.Equal(t, models.SentimentCounts{Positive: 100, Neutral: 100, Negative: 100}, counts)
}
