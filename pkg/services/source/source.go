// Package source resolves a dataset profile to an open sales store.
package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/services/config"
	"github.com/de-tools/salespulse/pkg/store/client"
	"github.com/de-tools/salespulse/pkg/store/sales"
)

type Source struct {
	Profile domain.SourceProfile
	DB      *sql.DB
	Store   sales.Store
}

func Open(ctx context.Context, registry config.Registry, name string) (*Source, error) {
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return nil, err
	}

	db, err := client.Open(ctx, profile)
	if err != nil {
		return nil, err
	}

	store, err := sales.NewStore(db, profile.Table)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sales store for %s: %w", profile, err)
	}

	return &Source{Profile: profile, DB: db, Store: store}, nil
}

func (s *Source) Close() error {
	return s.DB.Close()
}
