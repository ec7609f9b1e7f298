package adapters

import (
	"github.com/de-tools/salespulse/pkg/models/api"
	"github.com/de-tools/salespulse/pkg/models/domain"
)

func MapSelectionDomainToApi(id string, sel domain.Selection, revision uint64) api.Session {
	res := api.Session{
		ID:           id,
		PrimaryTab:   string(sel.PrimaryTab),
		SecondaryTab: string(sel.SecondaryTab),
		Filters:      make(map[string]string, len(domain.FilterKeys)),
		Revision:     revision,
	}
	for _, k := range domain.FilterKeys {
		res.Filters[string(k)] = sel.Filter(k)
	}
	return res
}

func MapFilterOptionsToApi() []api.FilterOption {
	res := make([]api.FilterOption, 0, len(domain.FilterKeys))
	for _, k := range domain.FilterKeys {
		res = append(res, api.FilterOption{
			Key:     string(k),
			Label:   k.Label(),
			Options: k.Options(),
		})
	}
	return res
}

func MapTabsToApi() api.Tabs {
	res := api.Tabs{
		Primary:   make([]api.Tab, 0, len(domain.PrimaryTabs)),
		Secondary: make([]api.Tab, 0, len(domain.SecondaryTabs)),
	}
	for _, t := range domain.PrimaryTabs {
		res.Primary = append(res.Primary, api.Tab{ID: string(t), Label: t.Label()})
	}
	for _, t := range domain.SecondaryTabs {
		res.Secondary = append(res.Secondary, api.Tab{ID: string(t), Label: t.Label()})
	}
	return res
}

func MapMetricCardDomainToApi(m domain.MetricCard) api.MetricCard {
	return api.MetricCard{
		Label:           m.Label,
		Value:           m.Value,
		Formatted:       m.Formatted,
		YOYDeltaPercent: m.YOYDeltaPercent,
		YOYAvailable:    m.YOYAvailable,
	}
}

func MapChartDomainToApi(c domain.TitledChart) api.Chart {
	res := api.Chart{
		Title:  c.Title,
		Kind:   string(c.Spec.Kind),
		Mark:   string(c.Spec.Mark),
		Bucket: string(c.Spec.Bucket),
		Unit:   c.Spec.Unit,
	}
	for _, s := range c.Spec.Series {
		series := api.Series{Name: s.Name, Points: make([]api.Point, 0, len(s.Points))}
		for _, p := range s.Points {
			series.Points = append(series.Points, api.Point{Date: p.Date, Value: p.Value})
		}
		res.Series = append(res.Series, series)
	}
	for _, s := range c.Spec.Slices {
		res.Slices = append(res.Slices, api.Slice{
			Label:        s.Label,
			Value:        s.Value,
			SharePercent: s.SharePercent,
		})
	}
	return res
}

func MapViewDomainToApi(v domain.View) api.View {
	res := api.View{
		PrimaryTab:   string(v.PrimaryTab),
		SecondaryTab: string(v.SecondaryTab),
		RowCount:     v.RowCount,
		Metrics:      make([]api.MetricCard, 0, len(v.Metrics)),
		Charts:       make([]api.Chart, 0, len(v.Charts)),
	}
	for _, m := range v.Metrics {
		res.Metrics = append(res.Metrics, MapMetricCardDomainToApi(m))
	}
	for _, c := range v.Charts {
		res.Charts = append(res.Charts, MapChartDomainToApi(c))
	}
	return res
}
