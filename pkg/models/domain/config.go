package domain

import "fmt"

type SourceType string

const (
	SourceTypeDuckDB     SourceType = "duckdb"
	SourceTypeDatabricks SourceType = "databricks"
	SourceTypeSnowflake  SourceType = "snowflake"
)

// SourceProfile names a tabular source holding sales records.
type SourceProfile struct {
	Name     string
	Type     SourceType
	Table    string
	Settings map[string]string
}

func (p SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}

func (p SourceProfile) Setting(key string) string {
	return p.Settings[key]
}
