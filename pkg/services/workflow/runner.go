// Package workflow copies sales records from a remote profile into the
// embedded DuckDB store in period batches.
package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/store/duckdb"
	"github.com/de-tools/salespulse/pkg/store/sales"
	"github.com/rs/zerolog"
)

type Runner struct {
	source   sales.Store
	target   sales.Store
	targetDB *sql.DB
	done     chan struct{}
	progress chan RunnerProgress
	config   RunnerConfig
}

type RunnerConfig struct {
	BatchMonths int
}

type RunnerProgress struct {
	ProcessedRecords int64
	TotalRecords     int64
	LastProcessedAt  time.Time
}

func NewRunner(source, target sales.Store, targetDB *sql.DB, config RunnerConfig) *Runner {
	if config.BatchMonths <= 0 {
		config.BatchMonths = 3
	}
	return &Runner{
		source:   source,
		target:   target,
		targetDB: targetDB,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 100),
		config:   config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress reports each committed batch. It is closed when Run returns.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Run resumes after the latest period already present in the target, so
// repeated runs only copy new months.
func (r *Runner) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	defer close(r.done)
	defer close(r.progress)

	stats, err := r.source.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("source stats: %w", err)
	}
	if stats.RecordsCount == 0 || stats.FirstPeriod == nil || stats.LastPeriod == nil {
		logger.Info().Msg("no records found")
		return nil
	}

	startTime := domain.MonthStart(*stats.FirstPeriod)
	targetStats, err := r.target.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("target stats: %w", err)
	}
	if targetStats.LastPeriod != nil {
		startTime = domain.MonthStart(*targetStats.LastPeriod).AddDate(0, 1, 0)
	}
	last := *stats.LastPeriod

	processedRecords := int64(0)
	for !startTime.After(last) {
		if err := ctx.Err(); err != nil {
			logger.Info().Msg("sync stopped")
			return err
		}

		from := startTime
		endTime := startTime.AddDate(0, r.config.BatchMonths, 0)
		records, err := r.source.Query(ctx, sales.Criteria{From: &from, To: &endTime})
		if err != nil {
			return fmt.Errorf("read batch from %s: %w", from.Format("2006-01"), err)
		}

		err = duckdb.RunInTx(ctx, r.targetDB, func(ctx context.Context) error {
			return r.target.Add(ctx, records)
		})
		if err != nil {
			return fmt.Errorf("store batch from %s: %w", from.Format("2006-01"), err)
		}

		processedRecords += int64(len(records))
		logger.Debug().
			Int("records", len(records)).
			Time("from", from).
			Time("to", endTime).
			Msg("batch synced")

		select {
		case r.progress <- RunnerProgress{
			ProcessedRecords: processedRecords,
			TotalRecords:     stats.RecordsCount,
			LastProcessedAt:  endTime,
		}:
		case <-ctx.Done():
			return ctx.Err()
		}

		startTime = endTime
	}
	return nil
}
