// Package plot draws dashboard charts as PNG images.
package plot

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned for charts whose values are all zero.
var ErrNoData = errors.New("chart has no data to draw")

type Renderer struct {
	Width  int
	Height int
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{Width: width, Height: height}
}

func (r *Renderer) Render(w io.Writer, c domain.TitledChart) error {
	switch c.Spec.Kind {
	case domain.ChartCategorical:
		return r.renderPie(w, c)
	case domain.ChartTimeSeries:
		dates := bucketDates(c.Spec.Series)
		if c.Spec.Mark == domain.MarkBar || len(dates) < 2 {
			return r.renderStackedBars(w, c, dates)
		}
		return r.renderLines(w, c)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Spec.Kind)
	}
}

func (r *Renderer) renderLines(w io.Writer, c domain.TitledChart) error {
	maxValue := 0.0
	series := make([]gochart.Series, 0, len(c.Spec.Series))
	for _, s := range c.Spec.Series {
		ts := gochart.TimeSeries{
			Name:    s.Name,
			XValues: make([]time.Time, 0, len(s.Points)),
			YValues: make([]float64, 0, len(s.Points)),
		}
		for _, p := range s.Points {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, p.Value)
			maxValue = max(maxValue, p.Value)
		}
		series = append(series, ts)
	}
	if maxValue <= 0 {
		return ErrNoData
	}

	ch := gochart.Chart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: gochart.YAxis{
			Name:  c.Spec.Unit,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", c.Title, err)
	}
	return nil
}

func (r *Renderer) renderStackedBars(w io.Writer, c domain.TitledChart, dates []time.Time) error {
	bars := make([]gochart.StackedBar, 0, len(dates))
	total := 0.0
	for _, d := range dates {
		bar := gochart.StackedBar{Name: domain.BucketLabel(c.Spec.Bucket, d)}
		for _, s := range c.Spec.Series {
			for _, p := range s.Points {
				if p.Date.Equal(d) && p.Value > 0 {
					bar.Values = append(bar.Values, gochart.Value{Label: s.Name, Value: p.Value})
					total += p.Value
				}
			}
		}
		if len(bar.Values) > 0 {
			bars = append(bars, bar)
		}
	}
	if total <= 0 {
		return ErrNoData
	}

	ch := gochart.StackedBarChart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Bars:   bars,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", c.Title, err)
	}
	return nil
}

func (r *Renderer) renderPie(w io.Writer, c domain.TitledChart) error {
	values := make([]gochart.Value, 0, len(c.Spec.Slices))
	for _, s := range c.Spec.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.SharePercent),
			Value: s.Value,
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := gochart.PieChart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", c.Title, err)
	}
	return nil
}

func bucketDates(series []domain.Series) []time.Time {
	var dates []time.Time
	for _, s := range series {
		for _, p := range s.Points {
			if !slices.ContainsFunc(dates, p.Date.Equal) {
				dates = append(dates, p.Date)
			}
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}
