package domain

import (
	"strings"
	"unicode"
)

type PrimaryTab string

const (
	TabDescriptive               PrimaryTab = "descriptive"
	TabDiagnostics               PrimaryTab = "diagnostics"
	TabPredictiveAndPrescriptive PrimaryTab = "predictive_prescriptive"
)

// PrimaryTabs lists the primary tabs in display order.
var PrimaryTabs = []PrimaryTab{TabDescriptive, TabDiagnostics, TabPredictiveAndPrescriptive}

var primaryTabLabels = map[PrimaryTab]string{
	TabDescriptive:               "Descriptive",
	TabDiagnostics:               "Diagnostics",
	TabPredictiveAndPrescriptive: "Predictive & Prescriptive",
}

func (t PrimaryTab) Label() string {
	return primaryTabLabels[t]
}

func (t PrimaryTab) Valid() bool {
	_, ok := primaryTabLabels[t]
	return ok
}

type SecondaryTab string

const (
	SubTabExecutiveSummary SecondaryTab = "executive_summary"
	SubTabCategorySummary  SecondaryTab = "category_summary"
	SubTabRegionalSummary  SecondaryTab = "regional_summary"
)

// SecondaryTabs lists the Descriptive sub-tabs in display order.
var SecondaryTabs = []SecondaryTab{SubTabExecutiveSummary, SubTabCategorySummary, SubTabRegionalSummary}

var secondaryTabLabels = map[SecondaryTab]string{
	SubTabExecutiveSummary: "Executive Summary",
	SubTabCategorySummary:  "Category Summary",
	SubTabRegionalSummary:  "Regional Summary",
}

func (t SecondaryTab) Label() string {
	return secondaryTabLabels[t]
}

func (t SecondaryTab) Valid() bool {
	_, ok := secondaryTabLabels[t]
	return ok
}

// ParsePrimaryTab accepts either the slug or the display label, ignoring case,
// spacing and punctuation.
func ParsePrimaryTab(s string) (PrimaryTab, error) {
	key := normalize(s)
	for _, tab := range PrimaryTabs {
		if key == normalize(string(tab)) || key == normalize(tab.Label()) {
			return tab, nil
		}
	}
	return "", &SelectionError{Field: "tab", Value: s, Reason: "unknown primary tab"}
}

func ParseSecondaryTab(s string) (SecondaryTab, error) {
	key := normalize(s)
	for _, tab := range SecondaryTabs {
		if key == normalize(string(tab)) || key == normalize(tab.Label()) {
			return tab, nil
		}
	}
	return "", &SelectionError{Field: "subtab", Value: s, Reason: "unknown secondary tab"}
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
