package domain

import (
	"fmt"
	"strings"
)

// All is the sentinel filter value that imposes no restriction.
const All = "All"

type FilterKey string

const (
	FilterYear         FilterKey = "year"
	FilterQuarter      FilterKey = "quarter"
	FilterMonth        FilterKey = "month"
	FilterCountry      FilterKey = "country"
	FilterRegion       FilterKey = "region"
	FilterChannel      FilterKey = "channel"
	FilterManufacturer FilterKey = "manufacturer"
	FilterDivision     FilterKey = "division"
	FilterBrand        FilterKey = "brand"
	FilterCategory     FilterKey = "category"
	FilterSegment      FilterKey = "segment"
)

// FilterKeys lists every filter in sidebar order.
var FilterKeys = []FilterKey{
	FilterYear,
	FilterQuarter,
	FilterMonth,
	FilterCountry,
	FilterRegion,
	FilterChannel,
	FilterManufacturer,
	FilterDivision,
	FilterBrand,
	FilterCategory,
	FilterSegment,
}

type filterDomain struct {
	label   string
	members []string
}

var filterDomains = map[FilterKey]filterDomain{
	FilterYear:    {label: "Year", members: []string{"2022", "2023"}},
	FilterQuarter: {label: "Quarter", members: []string{"Q1", "Q2", "Q3", "Q4"}},
	FilterMonth: {label: "Month", members: []string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}},
	FilterCountry:      numbered("Country"),
	FilterRegion:       numbered("Region"),
	FilterChannel:      numbered("Channel"),
	FilterManufacturer: numbered("Manufacturer"),
	FilterDivision:     numbered("Division"),
	FilterBrand:        numbered("Brand"),
	FilterCategory:     numbered("Category"),
	FilterSegment:      numbered("Segment"),
}

func numbered(label string) filterDomain {
	return filterDomain{
		label:   label,
		members: []string{label + " 1", label + " 2", label + " 3"},
	}
}

func (k FilterKey) Label() string {
	return filterDomains[k].label
}

func (k FilterKey) Valid() bool {
	_, ok := filterDomains[k]
	return ok
}

// Members returns a copy of the key's fixed enumeration, without All.
func (k FilterKey) Members() []string {
	return append([]string(nil), filterDomains[k].members...)
}

// Options returns the values a control for this key offers, All first.
func (k FilterKey) Options() []string {
	return append([]string{All}, filterDomains[k].members...)
}

// IsTime reports whether the key restricts the calendar period rather than a
// dimension column.
func (k FilterKey) IsTime() bool {
	return k == FilterYear || k == FilterQuarter || k == FilterMonth
}

// Canonical resolves v against the key's domain ignoring case and surrounding
// space, returning the declared spelling.
func (k FilterKey) Canonical(v string) (string, error) {
	dom, ok := filterDomains[k]
	if !ok {
		return "", &SelectionError{Field: "filter", Value: string(k), Reason: "unknown filter"}
	}
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, All) {
		return All, nil
	}
	for _, m := range dom.members {
		if strings.EqualFold(v, m) {
			return m, nil
		}
	}
	return "", &SelectionError{
		Field:  dom.label,
		Value:  v,
		Reason: fmt.Sprintf("expected one of %s", strings.Join(k.Options(), ", ")),
	}
}

func ParseFilterKey(s string) (FilterKey, error) {
	key := normalize(s)
	for _, k := range FilterKeys {
		if key == normalize(string(k)) {
			return k, nil
		}
	}
	return "", &SelectionError{Field: "filter", Value: s, Reason: "unknown filter"}
}
