package config

import (
	"context"
	"fmt"
	"slices"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry resolves named dataset profiles.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.SourceProfile, error)
	GetProfile(ctx context.Context, name string) (domain.SourceProfile, error)
}

var settingKeys = map[domain.SourceType][]string{
	domain.SourceTypeDuckDB:     {"path", "threads"},
	domain.SourceTypeDatabricks: {"host", "http_path", "token", "catalog", "schema"},
	domain.SourceTypeSnowflake:  {"account", "user", "password", "database", "schema", "warehouse", "role"},
}

var requiredKeys = map[domain.SourceType][]string{
	domain.SourceTypeDatabricks: {"host", "http_path", "token"},
	domain.SourceTypeSnowflake:  {"account", "user"},
}

type iniRegistry struct {
	cfg *ini.File
}

// NewRegistry loads profiles from an INI file. Every non-empty section is a
// profile; its "type" key defaults to duckdb.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

// NewRegistryFromBytes parses profiles from an in-memory INI document.
func NewRegistryFromBytes(data []byte) (Registry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]domain.SourceProfile, error) {
	var profiles []domain.SourceProfile
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		p, err := parseProfile(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (domain.SourceProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.SourceProfile{}, fmt.Errorf("profile %s not found", name)
	}
	return parseProfile(section)
}

func parseProfile(section *ini.Section) (domain.SourceProfile, error) {
	typ := domain.SourceType(section.Key("type").MustString(string(domain.SourceTypeDuckDB)))
	keys, ok := settingKeys[typ]
	if !ok {
		return domain.SourceProfile{}, fmt.Errorf("profile %s: unsupported type %q", section.Name(), typ)
	}

	p := domain.SourceProfile{
		Name:     section.Name(),
		Type:     typ,
		Table:    section.Key("table").String(),
		Settings: make(map[string]string),
	}
	for _, k := range keys {
		if section.HasKey(k) {
			p.Settings[k] = section.Key(k).String()
		}
	}
	for _, k := range requiredKeys[typ] {
		if p.Settings[k] == "" {
			return domain.SourceProfile{}, fmt.Errorf("profile %s: missing %q", section.Name(), k)
		}
	}
	for _, k := range section.KeyStrings() {
		if k != "type" && k != "table" && !slices.Contains(keys, k) {
			return domain.SourceProfile{}, fmt.Errorf("profile %s: unknown key %q for type %s", section.Name(), k, typ)
		}
	}
	return p, nil
}
