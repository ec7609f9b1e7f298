// Package client opens database handles for dataset profiles.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/store/duckdb"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
)

// Open returns a handle to the profile's source. Remote sources are pinged
// so that bad credentials fail here rather than on the first render.
func Open(ctx context.Context, profile domain.SourceProfile) (*sql.DB, error) {
	logger := zerolog.Ctx(ctx)

	var (
		db  *sql.DB
		err error
	)
	switch profile.Type {
	case domain.SourceTypeDuckDB:
		threads, _ := strconv.Atoi(profile.Setting("threads"))
		return duckdb.NewDB(duckdb.Settings{DbPath: profile.Setting("path"), Threads: threads})
	case domain.SourceTypeDatabricks:
		db, err = sql.Open("databricks", DatabricksDSN(profile))
	case domain.SourceTypeSnowflake:
		var dsn string
		dsn, err = SnowflakeDSN(profile)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open("snowflake", dsn)
	default:
		return nil, fmt.Errorf("unsupported source type %q", profile.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", profile, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", profile, err)
	}
	logger.Info().Str("profile", profile.Name).Str("type", string(profile.Type)).Msg("connected to source")
	return db, nil
}

func DatabricksDSN(profile domain.SourceProfile) string {
	dsn := fmt.Sprintf("token:%s@%s%s", profile.Setting("token"), profile.Setting("host"), profile.Setting("http_path"))

	params := url.Values{}
	if c := profile.Setting("catalog"); c != "" {
		params.Set("catalog", c)
	}
	if s := profile.Setting("schema"); s != "" {
		params.Set("schema", s)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn
}

func SnowflakeDSN(profile domain.SourceProfile) (string, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   profile.Setting("account"),
		User:      profile.Setting("user"),
		Password:  profile.Setting("password"),
		Database:  profile.Setting("database"),
		Schema:    profile.Setting("schema"),
		Warehouse: profile.Setting("warehouse"),
		Role:      profile.Setting("role"),
	})
	if err != nil {
		return "", fmt.Errorf("snowflake dsn for %s: %w", profile.Name, err)
	}
	return dsn, nil
}
