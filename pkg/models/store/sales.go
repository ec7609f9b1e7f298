package store

import "time"

type SalesRecord struct {
	Period       time.Time
	Country      string
	Region       string
	Channel      string
	Manufacturer string
	Division     string
	Brand        string
	Category     string
	Segment      string
	Value        float64
	Volume       float64
	Units        float64
	OwnBrand     bool
}

type SalesStats struct {
	RecordsCount int64
	FirstPeriod  *time.Time
	LastPeriod   *time.Time
}
