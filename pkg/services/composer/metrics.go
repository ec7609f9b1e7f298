package composer

import (
	"math"
	"strconv"

	"github.com/de-tools/salespulse/pkg/models/domain"
)

type totals struct {
	volume float64
	value  float64
	units  float64
}

func (t totals) avgPrice() float64 {
	if t.units == 0 {
		return 0
	}
	return t.value / t.units
}

func sumRows(rows []domain.SalesRecord, ownBrandOnly bool) totals {
	var t totals
	for _, r := range rows {
		if ownBrandOnly && !r.OwnBrand {
			continue
		}
		t.volume += r.Volume
		t.value += r.Value
		t.units += r.Units
	}
	return t
}

func rowsInYear(rows []domain.SalesRecord, year int) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(rows))
	for _, r := range rows {
		if r.Period.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// anchorYear is the year the YOY delta compares against the year before:
// the selected Year, or the latest year of the filtered rows when Year is All.
func anchorYear(sel domain.Selection, filtered []domain.SalesRecord) (int, bool) {
	if y := sel.Filter(domain.FilterYear); y != domain.All {
		year, err := strconv.Atoi(y)
		return year, err == nil
	}
	if len(filtered) == 0 {
		return 0, false
	}
	latest := filtered[0].Period.Year()
	for _, r := range filtered[1:] {
		if y := r.Period.Year(); y > latest {
			latest = y
		}
	}
	return latest, true
}

// periodComparison holds the totals of the anchor year and the year before
// for the overall and own-brand subsets.
type periodComparison struct {
	current, prior       totals
	ownCurrent, ownPrior totals
	available            bool
}

func comparePeriods(sel domain.Selection, dataset, filtered []domain.SalesRecord) periodComparison {
	year, ok := anchorYear(sel, filtered)
	if !ok {
		return periodComparison{}
	}
	current := rowsInYear(filtered, year)
	prior := rowsInYear(filterExcept(sel, dataset, domain.FilterYear), year-1)
	return periodComparison{
		current:    sumRows(current, false),
		prior:      sumRows(prior, false),
		ownCurrent: sumRows(current, true),
		ownPrior:   sumRows(prior, true),
		available:  true,
	}
}

// yoy returns the percentage change from prior to current. A zero prior has
// no defined change.
func yoy(current, prior float64) (float64, bool) {
	if prior == 0 {
		return 0, false
	}
	return (current - prior) / math.Abs(prior) * 100, true
}

type metricDef struct {
	label   string
	measure func(totals) float64
	format  func(currency string, v float64) string
}

var metricDefs = []metricDef{
	{label: "Sell out Volume", measure: func(t totals) float64 { return t.volume }, format: compactOnly},
	{label: "Sell out Value", measure: func(t totals) float64 { return t.value }, format: formatMoney},
	{label: "Sell out Units", measure: func(t totals) float64 { return t.units }, format: compactOnly},
	{label: "Avg Price Per Unit", measure: totals.avgPrice, format: formatPrice},
}

func compactOnly(_ string, v float64) string {
	return formatCompact(v)
}

// metricCards reports the anchor year's totals so that each value and its
// YOY delta cover the same period. Without an anchor year every card is zero.
func (c *Composer) metricCards(sel domain.Selection, dataset, filtered []domain.SalesRecord) []domain.MetricCard {
	cmp := comparePeriods(sel, dataset, filtered)

	cards := make([]domain.MetricCard, 0, 2*len(metricDefs))
	for _, def := range metricDefs {
		cards = append(cards, c.card(def, def.label, cmp.current, cmp.prior, cmp.available))
	}
	for _, def := range metricDefs {
		cards = append(cards, c.card(def, def.label+" (Own Brand)", cmp.ownCurrent, cmp.ownPrior, cmp.available))
	}
	return cards
}

func (c *Composer) card(def metricDef, label string, current, prior totals, comparable bool) domain.MetricCard {
	v := def.measure(current)
	card := domain.MetricCard{
		Label:     label,
		Value:     v,
		Formatted: def.format(c.opts.Currency, v),
	}
	if comparable {
		card.YOYDeltaPercent, card.YOYAvailable = yoy(v, def.measure(prior))
	}
	return card
}
