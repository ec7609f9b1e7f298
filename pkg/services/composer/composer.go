// Package composer derives the dashboard render spec from a navigation
// selection and a read-only sales dataset.
package composer

import "github.com/de-tools/salespulse/pkg/models/domain"

const defaultCurrency = "R$"

const (
	TitleVolumeMarketShare = "Volume Market Share"
	TitleQuarterAnalysis   = "Value Sales – Quarter Analysis"
	TitleRegionWise        = "Value Sales – Region wise"
	TitleChannelWise       = "Value Sales – Channel wise"
	TitlePerformance       = "Value Sales – Performance over time"
)

type Options struct {
	// Currency prefixes monetary metric values.
	Currency string
}

type Composer struct {
	opts Options
}

func New(opts Options) *Composer {
	if opts.Currency == "" {
		opts.Currency = defaultCurrency
	}
	return &Composer{opts: opts}
}

type layoutKey struct {
	primary   domain.PrimaryTab
	secondary domain.SecondaryTab
}

type layout func(c *Composer, sel domain.Selection, dataset, filtered []domain.SalesRecord) ([]domain.MetricCard, []domain.TitledChart)

// layouts maps a tab selection to its content. Selections without an entry
// render an empty placeholder.
var layouts = map[layoutKey]layout{
	{domain.TabDescriptive, domain.SubTabExecutiveSummary}: executiveSummary,
}

// Derive filters dataset by sel and builds the metrics and charts of the
// selected tab. It never mutates dataset and returns equal views for equal
// inputs.
func (c *Composer) Derive(sel domain.Selection, dataset []domain.SalesRecord) domain.View {
	filtered := Filter(sel, dataset)
	view := domain.View{
		PrimaryTab:   sel.PrimaryTab,
		SecondaryTab: sel.SecondaryTab,
		Metrics:      []domain.MetricCard{},
		Charts:       []domain.TitledChart{},
		RowCount:     len(filtered),
	}
	build, ok := layouts[layoutKey{sel.PrimaryTab, sel.SecondaryTab}]
	if !ok {
		return view
	}
	view.Metrics, view.Charts = build(c, sel, dataset, filtered)
	return view
}

func executiveSummary(
	c *Composer,
	sel domain.Selection,
	dataset, filtered []domain.SalesRecord,
) ([]domain.MetricCard, []domain.TitledChart) {
	charts := []domain.TitledChart{
		{
			Title: TitleVolumeMarketShare,
			Spec: domain.ChartSpec{
				Kind:   domain.ChartTimeSeries,
				Mark:   domain.MarkLine,
				Bucket: domain.BucketMonth,
				Unit:   "%",
				Series: shareOfBucket(timeSeries(filtered, domain.BucketMonth, domain.FilterManufacturer, byVolume)),
			},
		},
		{
			Title: TitleQuarterAnalysis,
			Spec: domain.ChartSpec{
				Kind:   domain.ChartTimeSeries,
				Mark:   domain.MarkBar,
				Bucket: domain.BucketQuarter,
				Unit:   c.opts.Currency,
				Series: timeSeries(filtered, domain.BucketQuarter, domain.FilterManufacturer, byValue),
			},
		},
		{
			Title: TitleRegionWise,
			Spec: domain.ChartSpec{
				Kind:   domain.ChartCategorical,
				Mark:   domain.MarkArc,
				Unit:   "%",
				Slices: breakdown(filtered, domain.FilterRegion, byValue),
			},
		},
		{
			Title: TitleChannelWise,
			Spec: domain.ChartSpec{
				Kind:   domain.ChartCategorical,
				Mark:   domain.MarkArc,
				Unit:   "%",
				Slices: breakdown(filtered, domain.FilterChannel, byValue),
			},
		},
		{
			Title: TitlePerformance,
			Spec: domain.ChartSpec{
				Kind:   domain.ChartTimeSeries,
				Mark:   domain.MarkLine,
				Bucket: domain.BucketMonth,
				Unit:   c.opts.Currency,
				Series: timeSeries(filtered, domain.BucketMonth, domain.FilterManufacturer, byValue),
			},
		},
	}
	return c.metricCards(sel, dataset, filtered), charts
}
