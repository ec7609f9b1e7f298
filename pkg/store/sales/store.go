package sales

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/salespulse/pkg/models/store"
	"github.com/de-tools/salespulse/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store reads and writes sales records in any database/sql source whose
// driver accepts "?" placeholders (DuckDB, Databricks SQL, Snowflake).
type Store interface {
	Add(ctx context.Context, records []store.SalesRecord) error
	Query(ctx context.Context, criteria Criteria) ([]store.SalesRecord, error)
	GetStats(ctx context.Context) (*store.SalesStats, error)
}

// Criteria restricts a query to rows whose dimension columns equal the given
// values. Keys must be one of DimensionColumns. From is inclusive, To is
// exclusive.
type Criteria struct {
	Dimensions map[string]string
	From       *time.Time
	To         *time.Time
}

var DimensionColumns = []string{
	"country", "region", "channel", "manufacturer", "division", "brand", "category", "segment",
}

const selectColumns = `period, country, region, channel, manufacturer, division, brand, category, segment,
			value, volume, units, own_brand`

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

type salesStore struct {
	db    *sql.DB
	table string
}

func NewStore(db *sql.DB, table string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = duckdb.SalesTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &salesStore{db: db, table: table}, nil
}

func (s *salesStore) Add(ctx context.Context, records []store.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)`, s.table, selectColumns)

	var stmt *sql.Stmt
	var err error
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		stmt, err = tx.PrepareContext(ctx, query)
	} else {
		stmt, err = s.db.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.Period,
			r.Country,
			r.Region,
			r.Channel,
			r.Manufacturer,
			r.Division,
			r.Brand,
			r.Category,
			r.Segment,
			r.Value,
			r.Volume,
			r.Units,
			r.OwnBrand,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

func (s *salesStore) Query(ctx context.Context, criteria Criteria) (records []store.SalesRecord, err error) {
	ctx, span := otel.Tracer("github.com/de-tools/salespulse/pkg/store/sales").Start(ctx, "sales.Query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.table", s.table)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("db.rows", len(records)))
		span.End()
	}()

	logger := zerolog.Ctx(ctx)

	columns := make([]string, 0, len(criteria.Dimensions))
	for col := range criteria.Dimensions {
		if !slices.Contains(DimensionColumns, col) {
			return nil, fmt.Errorf("unsupported dimension column %q", col)
		}
		columns = append(columns, col)
	}
	slices.Sort(columns)

	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conditions = append(conditions, col+" = ?")
		args = append(args, criteria.Dimensions[col])
	}
	if criteria.From != nil {
		conditions = append(conditions, "period >= ?")
		args = append(args, *criteria.From)
	}
	if criteria.To != nil {
		conditions = append(conditions, "period < ?")
		args = append(args, *criteria.To)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s`, selectColumns, s.table)
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY period"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales records: %w", err)
	}
	defer rows.Close()

	records, err = scanSalesRows(rows)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("rows", len(records)).
		Strs("dimensions", columns).
		Msg("loaded sales records")
	return records, nil
}

func (s *salesStore) GetStats(ctx context.Context) (*store.SalesStats, error) {
	query := fmt.Sprintf(`SELECT COUNT(*), MIN(period), MAX(period) FROM %s`, s.table)

	var total int64
	var first, last sql.NullTime
	if err := s.db.QueryRowContext(ctx, query).Scan(&total, &first, &last); err != nil {
		return nil, fmt.Errorf("get sales stats: %w", err)
	}

	stats := &store.SalesStats{RecordsCount: total}
	if first.Valid {
		t := first.Time
		stats.FirstPeriod = &t
	}
	if last.Valid {
		t := last.Time
		stats.LastPeriod = &t
	}
	return stats, nil
}

func scanSalesRows(rows *sql.Rows) ([]store.SalesRecord, error) {
	records := make([]store.SalesRecord, 0)
	for rows.Next() {
		var r store.SalesRecord
		if err := rows.Scan(
			&r.Period,
			&r.Country,
			&r.Region,
			&r.Channel,
			&r.Manufacturer,
			&r.Division,
			&r.Brand,
			&r.Category,
			&r.Segment,
			&r.Value,
			&r.Volume,
			&r.Units,
			&r.OwnBrand,
		); err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales records: %w", err)
	}
	return records, nil
}
