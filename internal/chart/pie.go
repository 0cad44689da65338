package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spacesedan/sentilens/internal/models"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	CHART_TITLE   = "Sentiment Distribution (Predicted)"
	CHART_WIDTH   = 640
	CHART_HEIGHT  = 480
	EMPTY_LABEL   = "No reviews"
	PERCENT_LABEL = "%s %.1f%%"
)

var ErrRender = errors.New("failed to render chart")

var sliceColors = map[models.SentimentLabel]drawing.Color{
	models.LabelPositive: {R: 255, G: 215, B: 0, A: 255},   // gold
	models.LabelNeutral:  {R: 240, G: 128, B: 128, A: 255}, // lightcoral
	models.LabelNegative: {R: 135, G: 206, B: 250, A: 255}, // lightskyblue
}

var emptyColor = drawing.Color{R: 211, G: 211, B: 211, A: 255}

// surfaces holds the encode buffers; one is checked out per render.
var surfaces = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

type Renderer interface {
	Render(counts models.SentimentCounts) (string, error)
}

type PieRenderer struct {
	Width    int
	Height   int
	Title    string
	provider gochart.RendererProvider
}

func NewPieRenderer() *PieRenderer {
	return &PieRenderer{
		Width:    CHART_WIDTH,
		Height:   CHART_HEIGHT,
		Title:    CHART_TITLE,
		provider: gochart.PNG,
	}
}

// Render draws counts as a PNG pie chart and returns it base64 encoded. The
// counts are only read.
func (p *PieRenderer) Render(counts models.SentimentCounts) (img string, err error) {
	buf := surfaces.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		surfaces.Put(buf)
	}()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ChartRenderer] Recovered from panic while drawing",
				slog.Any("panic", r))
			img, err = "", fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()

	values := pieValues(counts)
	pie := gochart.PieChart{
		Width:        p.Width,
		Height:       p.Height,
		Title:        p.Title,
		Values:       values,
		ColorPalette: paletteFor(values),
	}

	if err := pie.Render(p.provider, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("%w: empty image", ErrRender)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// pieValues builds one slice per non-zero label. With nothing counted a
// single grey disc stands in so the response always carries an image.
func pieValues(counts models.SentimentCounts) []gochart.Value {
	total := counts.Total()
	if total == 0 {
		return []gochart.Value{{
			Value: 1,
			Label: EMPTY_LABEL,
			Style: gochart.Style{FillColor: emptyColor},
		}}
	}

	values := make([]gochart.Value, 0, len(models.Labels))
	for _, label := range models.Labels {
		n := counts.Get(label)
		if n == 0 {
			continue
		}
		pct := float64(n) / float64(total) * 100
		values = append(values, gochart.Value{
			Value: float64(n),
			Label: fmt.Sprintf(PERCENT_LABEL, label, pct),
			Style: gochart.Style{FillColor: sliceColors[label]},
		})
	}
	return values
}

// slicePalette hands out the slice fill colours by index. go-chart ignores
// Value.Style when it draws a lone slice as a full disc, so the palette has
// to carry the same colours.
type slicePalette struct {
	gochart.ColorPalette
	fills []drawing.Color
}

func paletteFor(values []gochart.Value) slicePalette {
	fills := make([]drawing.Color, len(values))
	for i, v := range values {
		fills[i] = v.Style.FillColor
	}
	return slicePalette{ColorPalette: gochart.AlternateColorPalette, fills: fills}
}

func (sp slicePalette) GetSeriesColor(index int) drawing.Color {
	if index >= 0 && index < len(sp.fills) {
		return sp.fills[index]
	}
	return sp.ColorPalette.GetSeriesColor(index)
}
