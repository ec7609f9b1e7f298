package domain

import "time"

// Selection is an immutable snapshot of a session's navigation state.
type Selection struct {
	PrimaryTab   PrimaryTab
	SecondaryTab SecondaryTab // empty unless PrimaryTab is Descriptive
	Filters      map[FilterKey]string
}

// Filter returns the selected value for k, All when unset.
func (s Selection) Filter(k FilterKey) string {
	if v, ok := s.Filters[k]; ok && v != "" {
		return v
	}
	return All
}

type MetricCard struct {
	Label           string
	Value           float64
	Formatted       string
	YOYDeltaPercent float64
	YOYAvailable    bool
}

type ChartKind string

const (
	ChartTimeSeries  ChartKind = "time_series"
	ChartCategorical ChartKind = "categorical"
)

// ChartMark is a hint to the presentation layer.
type ChartMark string

const (
	MarkLine ChartMark = "line"
	MarkBar  ChartMark = "bar"
	MarkArc  ChartMark = "arc"
)

type Bucket string

const (
	BucketMonth   Bucket = "month"
	BucketQuarter Bucket = "quarter"
)

type Point struct {
	Date  time.Time
	Value float64
}

type Series struct {
	Name   string
	Points []Point
}

type Slice struct {
	Label        string
	Value        float64
	SharePercent float64
}

type ChartSpec struct {
	Kind   ChartKind
	Mark   ChartMark
	Bucket Bucket // time series only
	Unit   string
	Series []Series
	Slices []Slice
}

type TitledChart struct {
	Title string
	Spec  ChartSpec
}

// View is the render spec derived for one selection.
type View struct {
	PrimaryTab   PrimaryTab
	SecondaryTab SecondaryTab
	Metrics      []MetricCard
	Charts       []TitledChart
	RowCount     int
}
