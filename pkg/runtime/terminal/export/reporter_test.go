package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	sel := domain.Selection{
		PrimaryTab:   domain.TabDescriptive,
		SecondaryTab: domain.SubTabExecutiveSummary,
		Filters:      map[domain.FilterKey]string{domain.FilterRegion: "Region 1"},
	}
	view := domain.View{
		PrimaryTab:   domain.TabDescriptive,
		SecondaryTab: domain.SubTabExecutiveSummary,
		RowCount:     2,
		Metrics: []domain.MetricCard{
			{Label: "Sell out Value", Formatted: "R$1.2K", YOYAvailable: true, YOYDeltaPercent: -4.3},
			{Label: "Sell out Units", Formatted: "120"},
		},
		Charts: []domain.TitledChart{
			{Title: "Value Sales – Quarter Analysis", Spec: domain.ChartSpec{
				Kind: domain.ChartTimeSeries, Bucket: domain.BucketQuarter, Unit: "R$",
				Series: []domain.Series{{Name: "Manufacturer 1", Points: []domain.Point{
					{Date: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), Value: 1200},
				}}},
			}},
			{Title: "Channel", Spec: domain.ChartSpec{
				Kind:   domain.ChartCategorical,
				Slices: []domain.Slice{{Label: "Channel 1", Value: 1200, SharePercent: 100}},
			}},
		},
	}

	require.NoError(t, NewReporter(&buf).Handle(sel, view))

	out := buf.String()
	assert.Contains(t, out, "Descriptive / Executive Summary")
	assert.Contains(t, out, "Filters: Region=Region 1")
	assert.Contains(t, out, "Sell out Value")
	assert.Contains(t, out, "R$1.2K")
	assert.Contains(t, out, "-4.3% YOY")
	assert.Contains(t, out, "no prior year")
	assert.Contains(t, out, "Q2 2023")
	assert.Contains(t, out, "1200.00 R$")
	assert.Contains(t, out, "100.0%")
}

func TestReporter_HandlePlaceholder(t *testing.T) {
	var buf bytes.Buffer
	sel := domain.Selection{PrimaryTab: domain.TabDiagnostics}

	require.NoError(t, NewReporter(&buf).Handle(sel, domain.View{PrimaryTab: domain.TabDiagnostics}))

	assert.Contains(t, buf.String(), "Diagnostics / -")
	assert.Contains(t, buf.String(), "Filters: none")
	assert.Contains(t, buf.String(), "No content for this tab yet.")
}

func TestReporter_Catalogue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Catalogue())

	assert.Contains(t, buf.String(), "All, 2022, 2023")
	assert.Contains(t, buf.String(), "All, Segment 1, Segment 2, Segment 3")
}
