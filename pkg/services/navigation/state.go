package navigation

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/de-tools/salespulse/pkg/models/domain"
)

// State holds the selected tab, sub-tab and every filter value of one
// session. Assignments are validated; a rejected assignment leaves the
// state untouched. State is not safe for concurrent use.
type State struct {
	primary   domain.PrimaryTab
	secondary domain.SecondaryTab
	filters   map[domain.FilterKey]string
	revision  uint64
	dirty     bool
}

func New() *State {
	s := &State{
		primary:   domain.PrimaryTabs[0],
		secondary: domain.SecondaryTabs[0],
		filters:   make(map[domain.FilterKey]string, len(domain.FilterKeys)),
	}
	for _, k := range domain.FilterKeys {
		s.filters[k] = domain.All
	}
	return s
}

func (s *State) PrimaryTab() domain.PrimaryTab {
	return s.primary
}

// SecondaryTab reports the selected sub-tab; ok is false when the primary
// tab has no sub-tabs.
func (s *State) SecondaryTab() (tab domain.SecondaryTab, ok bool) {
	if s.primary != domain.TabDescriptive {
		return "", false
	}
	return s.secondary, true
}

func (s *State) Filter(k domain.FilterKey) string {
	if v, ok := s.filters[k]; ok {
		return v
	}
	return domain.All
}

func (s *State) Revision() uint64 {
	return s.revision
}

// Dirty reports whether the state changed since the last MarkClean.
func (s *State) Dirty() bool {
	return s.dirty
}

func (s *State) MarkClean() {
	s.dirty = false
}

func (s *State) SetPrimaryTab(tab domain.PrimaryTab) error {
	if !tab.Valid() {
		return &domain.SelectionError{Field: "tab", Value: string(tab), Reason: "unknown primary tab"}
	}
	if s.primary != tab {
		s.primary = tab
		s.touch()
	}
	return nil
}

func (s *State) SetSecondaryTab(tab domain.SecondaryTab) error {
	if s.primary != domain.TabDescriptive {
		return &domain.SelectionError{
			Field:  "subtab",
			Value:  string(tab),
			Reason: fmt.Sprintf("sub-tabs are only available under %s", domain.TabDescriptive.Label()),
		}
	}
	if !tab.Valid() {
		return &domain.SelectionError{Field: "subtab", Value: string(tab), Reason: "unknown secondary tab"}
	}
	if s.secondary != tab {
		s.secondary = tab
		s.touch()
	}
	return nil
}

// SetFilter assigns value to key. The value is matched case-insensitively
// against the key's enumeration and stored in its declared spelling.
func (s *State) SetFilter(key domain.FilterKey, value string) error {
	canonical, err := key.Canonical(value)
	if err != nil {
		return err
	}
	if s.filters[key] != canonical {
		s.filters[key] = canonical
		s.touch()
	}
	return nil
}

func (s *State) ResetFilters() {
	changed := false
	for _, k := range domain.FilterKeys {
		if s.filters[k] != domain.All {
			s.filters[k] = domain.All
			changed = true
		}
	}
	if changed {
		s.touch()
	}
}

// Snapshot returns a copy the caller may keep after the state moves on.
func (s *State) Snapshot() domain.Selection {
	sel := domain.Selection{
		PrimaryTab: s.primary,
		Filters:    maps.Clone(s.filters),
	}
	if tab, ok := s.SecondaryTab(); ok {
		sel.SecondaryTab = tab
	}
	return sel
}

func (s *State) touch() {
	s.revision++
	s.dirty = true
}

type stateJSON struct {
	PrimaryTab   domain.PrimaryTab   `json:"primary_tab"`
	SecondaryTab domain.SecondaryTab `json:"secondary_tab"`
	Filters      map[string]string   `json:"filters"`
	Revision     uint64              `json:"revision"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[string(k)] = v
	}
	return json.Marshal(stateJSON{
		PrimaryTab:   s.primary,
		SecondaryTab: s.secondary,
		Filters:      filters,
		Revision:     s.revision,
	})
}

// UnmarshalJSON restores a state, validating every field. Missing filters
// default to All.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	restored := New()
	if err := restored.SetPrimaryTab(raw.PrimaryTab); err != nil {
		return err
	}
	if raw.SecondaryTab != "" {
		if !raw.SecondaryTab.Valid() {
			return &domain.SelectionError{Field: "subtab", Value: string(raw.SecondaryTab), Reason: "unknown secondary tab"}
		}
		restored.secondary = raw.SecondaryTab
	}
	for name, value := range raw.Filters {
		key, err := domain.ParseFilterKey(name)
		if err != nil {
			return err
		}
		if err := restored.SetFilter(key, value); err != nil {
			return err
		}
	}
	restored.revision = raw.Revision
	restored.dirty = false

	*s = *restored
	return nil
}
