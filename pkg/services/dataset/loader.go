// Package dataset loads the sales records a selection needs from a store.
package dataset

import (
	"context"
	"fmt"

	"github.com/de-tools/salespulse/pkg/adapters"
	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/store/sales"
)

type Loader interface {
	Load(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error)
}

type storeLoader struct {
	store sales.Store
}

// NewStoreLoader returns a Loader that pushes the selection's non-time
// filters down to the store. Time filters are left to the composer, which
// needs neighbouring years for year-over-year comparison.
func NewStoreLoader(store sales.Store) Loader {
	return &storeLoader{store: store}
}

func (l *storeLoader) Load(ctx context.Context, sel domain.Selection) ([]domain.SalesRecord, error) {
	records, err := l.store.Query(ctx, Criteria(sel))
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return adapters.MapStoreSalesRecordsToDomain(records), nil
}

// Criteria maps the selection's concrete non-time filters to store columns.
func Criteria(sel domain.Selection) sales.Criteria {
	dims := make(map[string]string)
	for _, k := range domain.FilterKeys {
		if k.IsTime() {
			continue
		}
		if v := sel.Filter(k); v != domain.All {
			dims[string(k)] = v
		}
	}
	return sales.Criteria{Dimensions: dims}
}

// Static serves a fixed in-memory dataset.
type Static []domain.SalesRecord

func (s Static) Load(context.Context, domain.Selection) ([]domain.SalesRecord, error) {
	return s, nil
}
