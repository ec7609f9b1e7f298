package domain

import (
	"strconv"
	"time"
)

// SalesRecord is one row of the sell-out dataset at month granularity.
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

// Dimension returns the row's value for a filter key in the same spelling
// the key's enumeration uses.
func (r SalesRecord) Dimension(k FilterKey) string {
	switch k {
	case FilterYear:
		return strconv.Itoa(r.Period.Year())
	case FilterQuarter:
		return "Q" + strconv.Itoa(Quarter(r.Period))
	case FilterMonth:
		return r.Period.Month().String()[:3]
	case FilterCountry:
		return r.Country
	case FilterRegion:
		return r.Region
	case FilterChannel:
		return r.Channel
	case FilterManufacturer:
		return r.Manufacturer
	case FilterDivision:
		return r.Division
	case FilterBrand:
		return r.Brand
	case FilterCategory:
		return r.Category
	case FilterSegment:
		return r.Segment
	default:
		return ""
	}
}

func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func QuarterStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.Month((Quarter(t)-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// BucketLabel names the period starting at d: "Q1 2023" for quarter buckets,
// "Jan 2023" otherwise.
func BucketLabel(b Bucket, d time.Time) string {
	if b == BucketQuarter {
		return "Q" + strconv.Itoa(Quarter(d)) + " " + strconv.Itoa(d.Year())
	}
	return d.Format("Jan 2006")
}
