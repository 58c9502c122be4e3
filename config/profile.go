// Package config parses the command line of each tbctool command and
// loads YAML analysis profiles.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"tbctools/measure"
	"tbctools/tbc"
	"tbctools/video"
)

// Profile is an analysis profile. Every field is optional.
type Profile struct {
	System          string         `yaml:"system"`
	Levels          *LevelsConfig  `yaml:"levels,omitempty"`
	Active          *RangeConfig   `yaml:"active,omitempty"`
	Lines           []int          `yaml:"lines"`            // frame lines to analyze
	SignalThreshold int            `yaml:"signal_threshold"` // default 30000
	Specs           []SpecConfig   `yaml:"specs"`            // custom line specs
	Assign          map[int]string `yaml:"assign"`           // frame line -> spec name
}

// LevelsConfig overrides the 16-bit reference levels.
type LevelsConfig struct {
	Sync     *int `yaml:"sync,omitempty"`
	Blanking *int `yaml:"blanking,omitempty"`
	White    *int `yaml:"white,omitempty"`
}

// RangeConfig is a half-open sample range.
type RangeConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// SpecConfig defines a line spec.
type SpecConfig struct {
	Name       string            `yaml:"name"`
	Active     *RangeConfig      `yaml:"active,omitempty"` // default: the system's active range
	Components []ComponentConfig `yaml:"components"`
}

// ComponentConfig defines one component. Expected levels are in IRE.
type ComponentConfig struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	Span        int     `yaml:"span"`
	Kind        string  `yaml:"kind"` // level, pulse, envelope, staircase
	ExpectedMin float64 `yaml:"expected_min"`
	ExpectedMax float64 `yaml:"expected_max"`
	Tolerance   float64 `yaml:"tolerance"`
	Steps       int     `yaml:"steps"`
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile parses and validates a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return &p, nil
}

// Validate checks the profile and fills defaults.
func (p *Profile) Validate() error {
	if p.System != "" {
		if _, err := video.ParseSystem(p.System); err != nil {
			return err
		}
	}
	if p.SignalThreshold == 0 {
		p.SignalThreshold = measure.DefaultSignalThreshold
	}
	if p.Active != nil && p.Active.End <= p.Active.Start {
		return fmt.Errorf("active range [%d,%d) is empty", p.Active.Start, p.Active.End)
	}
	for _, l := range p.Lines {
		if l < 1 {
			return fmt.Errorf("frame line %d must be 1 or more", l)
		}
	}

	names := map[string]bool{}
	for i := range p.Specs {
		s := &p.Specs[i]
		s.Name = strings.ToLower(strings.TrimSpace(s.Name))
		if s.Name == "" {
			return fmt.Errorf("spec %d has no name", i)
		}
		if names[s.Name] {
			return fmt.Errorf("spec %q defined twice", s.Name)
		}
		names[s.Name] = true
		if len(s.Components) == 0 {
			return fmt.Errorf("spec %q has no components", s.Name)
		}
		for j := range s.Components {
			c := &s.Components[j]
			if c.ID == "" {
				return fmt.Errorf("spec %q component %d has no id", s.Name, j)
			}
			c.Kind = strings.ToLower(c.Kind)
			if c.Kind == "" {
				c.Kind = "level"
			}
			if _, err := measure.ParseKind(c.Kind); err != nil {
				return fmt.Errorf("spec %q component %s: %w", s.Name, c.ID, err)
			}
			if c.Span < 0 {
				return fmt.Errorf("spec %q component %s: negative span", s.Name, c.ID)
			}
			if c.ExpectedMax < c.ExpectedMin {
				return fmt.Errorf("spec %q component %s: expected_max below expected_min", s.Name, c.ID)
			}
			if c.Kind == "staircase" && c.Steps == 0 {
				c.Steps = 6
			}
		}
	}
	for line, name := range p.Assign {
		if line < 1 {
			return fmt.Errorf("assign: frame line %d must be 1 or more", line)
		}
		name = strings.ToLower(name)
		if !names[name] && !isBuiltin(name) {
			return fmt.Errorf("assign: line %d uses unknown spec %q", line, name)
		}
	}
	return nil
}

func isBuiltin(name string) bool {
	return slices.Contains(measure.SpecNames(), name)
}

// Apply overlays the profile's levels and active range on std.
func (p *Profile) Apply(std video.Standard) video.Standard {
	if p == nil {
		return std
	}
	if p.Levels != nil {
		if p.Levels.Sync != nil {
			std.Sync = *p.Levels.Sync
		}
		if p.Levels.Blanking != nil {
			std.Blanking = *p.Levels.Blanking
		}
		if p.Levels.White != nil {
			std.White = *p.Levels.White
		}
	}
	if p.Active != nil {
		std.ActiveStart, std.ActiveEnd = p.Active.Start, p.Active.End
	}
	return std
}

// SystemOr returns the profile's system, or def when it names none.
func (p *Profile) SystemOr(def video.System) video.System {
	if p == nil || p.System == "" {
		return def
	}
	s, err := video.ParseSystem(p.System)
	if err != nil {
		return def
	}
	return s
}

// LineSpec builds the named spec, looking in the profile before the
// built-in specs.
func (p *Profile) LineSpec(name string, std video.Standard) (measure.LineSpec, error) {
	name = strings.ToLower(name)
	if p != nil {
		for _, s := range p.Specs {
			if s.Name == name {
				return s.build(std)
			}
		}
	}
	return measure.SpecByName(name, std)
}

// SpecFor picks the spec for a frame line: the profile's assignment, then
// fallback, then the system default.
func (p *Profile) SpecFor(frameLine int, fallback string, std video.Standard) (measure.LineSpec, error) {
	if p != nil {
		if name, ok := p.Assign[frameLine]; ok {
			return p.LineSpec(name, std)
		}
	}
	if fallback != "" {
		return p.LineSpec(fallback, std)
	}
	return measure.DefaultSpec(std), nil
}

func (s SpecConfig) build(std video.Standard) (measure.LineSpec, error) {
	spec := measure.LineSpec{
		Name:   s.Name,
		Active: tbc.SampleRange{Start: std.ActiveStart, End: std.ActiveEnd},
	}
	if s.Active != nil {
		spec.Active = tbc.SampleRange{Start: s.Active.Start, End: s.Active.End}
	}
	for _, c := range s.Components {
		kind, err := measure.ParseKind(c.Kind)
		if err != nil {
			return measure.LineSpec{}, err
		}
		spec.Components = append(spec.Components, measure.Component{
			ID:          c.ID,
			Description: c.Description,
			Span:        c.Span,
			Kind:        kind,
			ExpectedMin: c.ExpectedMin,
			ExpectedMax: c.ExpectedMax,
			Tolerance:   c.Tolerance,
			Steps:       c.Steps,
		})
	}
	return spec, nil
}
