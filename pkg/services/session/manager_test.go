package session

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/services/composer"
	"github.com/de-tools/salespulse/pkg/services/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func rows() dataset.Static {
	period := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	return dataset.Static{
		{Period: period, Region: "Region 1", Channel: "Channel 1", Manufacturer: "Manufacturer 1", Value: 100, Units: 10, Volume: 20, OwnBrand: true},
		{Period: period, Region: "Region 2", Channel: "Channel 2", Manufacturer: "Manufacturer 2", Value: 50, Units: 5, Volume: 10},
	}
}

// loaderFunc adapts a function to dataset.Loader.
type loaderFunc func(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error)

func (f loaderFunc) Load(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error) {
	return f(ctx, sel)
}

func newManager(loader dataset.Loader, opts Options) *Manager {
	return NewManager(loader, composer.New(composer.Options{}), opts)
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := newManager(rows(), Options{})

	s := m.Create(ctx)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, domain.TabDescriptive, s.Selection.PrimaryTab)
	assert.Equal(t, domain.SubTabExecutiveSummary, s.Selection.SecondaryTab)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Mutations(t *testing.T) {
	ctx := context.Background()
	m := newManager(rows(), Options{})
	id := m.Create(ctx).ID

	s, err := m.SetFilter(ctx, id, "Region", "region 2")
	require.NoError(t, err)
	assert.Equal(t, "Region 2", s.Selection.Filter(domain.FilterRegion))
	assert.Equal(t, uint64(1), s.Revision)

	_, err = m.SetFilter(ctx, id, "region", "Region 9")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	_, err = m.SetFilter(ctx, id, "colour", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	s, err = m.SetPrimaryTab(ctx, id, "Diagnostics")
	require.NoError(t, err)
	assert.Equal(t, domain.TabDiagnostics, s.Selection.PrimaryTab)
	assert.Empty(t, s.Selection.SecondaryTab)

	_, err = m.SetSecondaryTab(ctx, id, "Regional Summary")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	s, err = m.ResetFilters(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.All, s.Selection.Filter(domain.FilterRegion))

	_, err = m.SetFilter(ctx, "missing", "region", "Region 1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_UnknownSessionWinsOverInvalidValue(t *testing.T) {
	ctx := context.Background()
	m := newManager(rows(), Options{})

	_, err := m.SetPrimaryTab(ctx, "missing", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.SetSecondaryTab(ctx, "missing", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.SetFilter(ctx, "missing", "colour", "red")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.SetFilter(ctx, "missing", "region", "Region 9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	m := newManager(rows(), Options{})
	id := m.Create(ctx).ID

	require.NoError(t, m.Delete(ctx, id))
	assert.ErrorIs(t, m.Delete(ctx, id), ErrNotFound)
	assert.Zero(t, m.Count())
}

func TestManager_ExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(rows(), Options{TTL: time.Minute, Now: func() time.Time { return now }})

	idle := m.Create(ctx).ID
	now = now.Add(45 * time.Second)
	active := m.Create(ctx).ID
	now = now.Add(30 * time.Second)

	_, err := m.Get(ctx, idle)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, active)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestManager_Render(t *testing.T) {
	ctx := context.Background()
	m := newManager(rows(), Options{})
	id := m.Create(ctx).ID

	_, err := m.SetFilter(ctx, id, "region", "Region 1")
	require.NoError(t, err)

	view, s, err := m.Render(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Revision)
	assert.Equal(t, 1, view.RowCount)
	assert.Len(t, view.Metrics, 8)
	assert.Len(t, view.Charts, 5)

	_, err = m.SetPrimaryTab(ctx, id, "diagnostics")
	require.NoError(t, err)
	view, _, err = m.Render(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Metrics)
	assert.Empty(t, view.Charts)
}

func TestManager_Render_DiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	var m *Manager
	var id string
	calls := 0
	loader := loaderFunc(func(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error) {
		calls++
		if calls == 1 {
			_, err := m.SetFilter(ctx, id, "region", "Region 2")
			require.NoError(t, err)
		}
		return rows().Load(ctx, sel)
	})
	m = newManager(loader, Options{})
	id = m.Create(ctx).ID

	view, s, err := m.Render(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Region 2", s.Selection.Filter(domain.FilterRegion))
	assert.Equal(t, 1, view.RowCount)
}

func TestManager_Render_GivesUpWhenAlwaysStale(t *testing.T) {
	ctx := context.Background()
	var m *Manager
	var id string
	regions := []string{"Region 1", "Region 2"}
	calls := 0
	loader := loaderFunc(func(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error) {
		_, err := m.SetFilter(ctx, id, "region", regions[calls%2])
		require.NoError(t, err)
		calls++
		return nil, nil
	})
	m = newManager(loader, Options{MaxRenderAttempts: 2})
	id = m.Create(ctx).ID

	_, _, err := m.Render(ctx, id)
	assert.ErrorIs(t, err, ErrStaleRender)
	assert.Equal(t, 2, calls)
}

func TestManager_Render_PropagatesLoadErrors(t *testing.T) {
	ctx := context.Background()
	m := newManager(loaderFunc(func(context.Context, domain.Selection) ([]domain.SalesRecord, error) {
		return nil, assert.AnError
	}), Options{})
	id := m.Create(ctx).ID

	_, _, err := m.Render(ctx, id)
	assert.ErrorIs(t, err, assert.AnError)

	_, _, err = m.Render(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Render_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	ctx := context.Background()
	var m *Manager
	var id string
	calls := 0
	loader := loaderFunc(func(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error) {
		calls++
		if calls == 1 {
			_, err := m.SetFilter(ctx, id, "channel", "Channel 2")
			require.NoError(t, err)
		}
		return rows().Load(ctx, sel)
	})
	m = newManager(loader, Options{})
	id = m.Create(ctx).ID

	_, _, err := m.Render(ctx, id)
	require.NoError(t, err)
	_, _, err = m.Render(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "session.Render", ok.Name())
	assert.Contains(t, ok.Attributes(), attribute.String("session.id", id))
	assert.Contains(t, ok.Attributes(), attribute.Int("render.attempts", 2))
	require.Len(t, ok.Events(), 1)
	assert.Equal(t, "stale render discarded", ok.Events()[0].Name)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
