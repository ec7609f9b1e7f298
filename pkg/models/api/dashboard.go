package api

import "time"

type FilterOption struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Tabs struct {
	Primary   []Tab `json:"primary"`
	Secondary []Tab `json:"secondary"`
}

type Session struct {
	ID           string            `json:"id"`
	PrimaryTab   string            `json:"primary_tab"`
	SecondaryTab string            `json:"secondary_tab,omitempty"`
	Filters      map[string]string `json:"filters"`
	Revision     uint64            `json:"revision"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}

type FilterRequest struct {
	Value string `json:"value"`
}

type MetricCard struct {
	Label           string  `json:"label"`
	Value           float64 `json:"value"`
	Formatted       string  `json:"formatted"`
	YOYDeltaPercent float64 `json:"yoy_delta_percent"`
	YOYAvailable    bool    `json:"yoy_available"`
}

type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Slice struct {
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	SharePercent float64 `json:"share_percent"`
}

type Chart struct {
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	Mark   string   `json:"mark"`
	Bucket string   `json:"bucket,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	Series []Series `json:"series,omitempty"`
	Slices []Slice  `json:"slices,omitempty"`
}

type View struct {
	PrimaryTab   string       `json:"primary_tab"`
	SecondaryTab string       `json:"secondary_tab,omitempty"`
	RowCount     int          `json:"row_count"`
	Metrics      []MetricCard `json:"metrics"`
	Charts       []Chart      `json:"charts"`
}

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
