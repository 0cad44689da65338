package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/sentilens/internal/chart"
	"github.com/spacesedan/sentilens/internal/extract"
	"github.com/spacesedan/sentilens/internal/models"
	"github.com/spacesedan/sentilens/internal/sentiment"
	"github.com/spacesedan/sentilens/internal/translation"
	"golang.org/x/sync/errgroup"
)

const DEFAULT_WORKERS = 8

var ErrNoInput = errors.New("no files or text provided")

// Upload is one file part of a request.
type Upload struct {
	Name string
	Body io.Reader
}

type Request struct {
	Files     []Upload
	Text      string
	Translate bool
}

type Analyzer struct {
	scorer       sentiment.Scorer
	renderer     chart.Renderer
	translator   *translation.Service
	workers      int
	maxFileBytes int64
}

type Option func(*Analyzer)

func WithTranslator(svc *translation.Service) Option {
	return func(a *Analyzer) {
		a.translator = svc
	}
}

func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithMaxFileBytes caps the size of each uploaded file.
func WithMaxFileBytes(n int64) Option {
	return func(a *Analyzer) {
		a.maxFileBytes = n
	}
}

func NewAnalyzer(scorer sentiment.Scorer, renderer chart.Renderer, opts ...Option) *Analyzer {
	a := &Analyzer{
		scorer:   scorer,
		renderer: renderer,
		workers:  DEFAULT_WORKERS,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TranslatorName reports the configured translation backend, or "none".
func (a *Analyzer) TranslatorName() string {
	if a.translator == nil {
		return "none"
	}
	return a.translator.BackendName()
}

// Analyze scores every non-blank line of every file plus the text field as a
// single unit, then renders the distribution. Counts live only for this call.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.AnalysisResponse, error) {
	if len(req.Files) == 0 && req.Text == "" {
		return nil, ErrNoInput
	}
	start := time.Now()

	units, err := a.collectUnits(req)
	if err != nil {
		return nil, err
	}

	if req.Translate && len(units) > 0 {
		if a.translator == nil {
			slog.Warn("[Analyzer] Translation requested but no translator is configured")
		} else {
			units = a.translator.ToEnglish(ctx, units)
		}
	}

	counts, err := a.score(ctx, units)
	if err != nil {
		return nil, err
	}

	img, err := a.renderer.Render(counts)
	if err != nil {
		return nil, err
	}

	slog.Info("[Analyzer] Analysis complete",
		slog.Int("files", len(req.Files)),
		slog.Int("units", len(units)),
		slog.Int("positive", counts.Positive),
		slog.Int("neutral", counts.Neutral),
		slog.Int("negative", counts.Negative),
		slog.Duration("elapsed", time.Since(start)))

	return &models.AnalysisResponse{
		Image:           img,
		SentimentCounts: counts,
	}, nil
}

func (a *Analyzer) collectUnits(req Request) ([]string, error) {
	var units []string

	for _, file := range req.Files {
		lines, err := extract.LoadReviews(file.Body, a.maxFileBytes)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", file.Name, err)
		}

		reviews := extract.NonBlank(lines)
		if len(reviews) == 0 {
			slog.Debug("[Analyzer] Skipping file with no reviews",
				slog.String("file", file.Name))
			continue
		}
		units = append(units, reviews...)
	}

	if text := strings.TrimSpace(req.Text); text != "" {
		units = append(units, text)
	}

	return units, nil
}

func (a *Analyzer) score(ctx context.Context, units []string) (models.SentimentCounts, error) {
	agg := sentiment.NewAggregator()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, unit := range units {
		if gctx.Err() != nil {
			break
		}
		unit := unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			agg.Record(sentiment.Classify(a.scorer.Score(unit)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.SentimentCounts{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.SentimentCounts{}, err
	}

	return agg.Counts(), nil
}
