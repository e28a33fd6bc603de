// Package library is the read-only workout-template catalog the session
// resolver queries. Templates are authored in YAML; the default catalog is
// embedded in the binary.
package library

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Structure describes a template's internal shape: either an interval set
// (Reps x work/recovery) or a continuous effort, optionally split into
// percentage segments per zone.
type Structure struct {
	Reps          int       `yaml:"reps,omitempty" json:"reps,omitempty"`
	WorkMin       float64   `yaml:"work_min,omitempty" json:"work_min,omitempty"`
	WorkDistanceM float64   `yaml:"work_distance_m,omitempty" json:"work_distance_m,omitempty"`
	RecoveryMin   float64   `yaml:"recovery_min,omitempty" json:"recovery_min,omitempty"`
	Zone          vdot.Zone `yaml:"zone,omitempty" json:"zone,omitempty"`
	Splits        []Split   `yaml:"splits,omitempty" json:"splits,omitempty"`
}

// Split is one percentage segment of a continuous session.
type Split struct {
	Percent float64   `yaml:"percent" json:"percent"`
	Zone    vdot.Zone `yaml:"zone" json:"zone"`
}

// Interval reports whether the structure is repetition-based.
func (s Structure) Interval() bool {
	return s.Reps > 0
}

// Template is a library-defined workout blueprint.
type Template struct {
	ID          string                    `yaml:"id" json:"id"`
	Title       string                    `yaml:"title" json:"title"`
	Type        models.SessionType        `yaml:"type" json:"type"`
	Phase       models.Phase              `yaml:"phase" json:"phase"`
	Effort      int                       `yaml:"effort" json:"effort"` // target RPE 1-10
	Level       int                       `yaml:"level" json:"level"`  // difficulty within its effort band
	Races       []models.DistanceCategory `yaml:"races,omitempty" json:"races,omitempty"`
	WarmupMin   float64                   `yaml:"warmup_min,omitempty" json:"warmup_min,omitempty"`
	CooldownMin float64                   `yaml:"cooldown_min,omitempty" json:"cooldown_min,omitempty"`
	Structure   Structure                 `yaml:"structure" json:"structure"`
	Notes       string                    `yaml:"notes,omitempty" json:"notes,omitempty"`
	Tips        []string                  `yaml:"tips,omitempty" json:"tips,omitempty"`
}

// matchesRace reports whether the template applies for the given target
// race. Templates without a race list are generic and always apply.
func (t Template) matchesRace(race models.DistanceCategory) bool {
	if len(t.Races) == 0 {
		return true
	}
	for _, r := range t.Races {
		if r == race {
			return true
		}
	}
	return false
}

// Catalog is the queryable template set.
type Catalog struct {
	templates []Template
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Load parses the embedded default catalog.
func Load() (*Catalog, error) {
	return parse(defaultCatalog)
}

// LoadFile parses a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Templates))
	for _, t := range f.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog template %q has no id", t.Title)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return &Catalog{templates: f.Templates}, nil
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// All returns every template, in catalog order.
func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Find returns templates matching type, phase, and effort (within one RPE
// point), excluding the given ids and any race-specific template that does
// not cover the target race.
func (c *Catalog) Find(t models.SessionType, phase models.Phase, effort int, race models.DistanceCategory, exclude map[string]bool) []Template {
	var out []Template
	for _, tpl := range c.templates {
		if tpl.Type != t || tpl.Phase != phase {
			continue
		}
		if tpl.Effort < effort-1 || tpl.Effort > effort+1 {
			continue
		}
		if exclude[tpl.ID] || !tpl.matchesRace(race) {
			continue
		}
		out = append(out, tpl)
	}
	return out
}

// ByPhase returns all templates for a type and phase that apply to the
// target race, ignoring effort. Used by the resolver's level-nearest
// fallback.
func (c *Catalog) ByPhase(t models.SessionType, phase models.Phase, race models.DistanceCategory) []Template {
	var out []Template
	for _, tpl := range c.templates {
		if tpl.Type == t && tpl.Phase == phase && tpl.matchesRace(race) {
			out = append(out, tpl)
		}
	}
	return out
}
