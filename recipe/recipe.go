// Package recipe defines the theme recipe format: a structured, YAML-based
// description of selectors, declaration blocks, palette colors, fonts and
// includes from which stylesheets are generated. Selectors are specified by
// their parts, never as selector text, so nothing here ever parses CSS.
package recipe

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

type (
	// SelectorSpec names the fragments of one selector in stage order.
	SelectorSpec struct {
		Element       string   `yaml:"element,omitempty" json:"element,omitempty"`
		ID            string   `yaml:"id,omitempty" json:"id,omitempty"`
		Classes       []string `yaml:"classes,omitempty" json:"classes,omitempty" validate:"dive,required"`
		Attributes    []string `yaml:"attributes,omitempty" json:"attributes,omitempty" validate:"dive,required"`
		PseudoClasses []string `yaml:"pseudo-classes,omitempty" json:"pseudo-classes,omitempty" validate:"dive,required"`
		PseudoElement string   `yaml:"pseudo-element,omitempty" json:"pseudo-element,omitempty"`
	}

	// CombineSpec joins a further selector to the rule's selector chain.
	// An empty combinator means the descendant combinator.
	CombineSpec struct {
		Combinator string       `yaml:"combinator,omitempty" json:"combinator,omitempty"`
		Selector   SelectorSpec `yaml:"selector" json:"selector"`
		Combine    *CombineSpec `yaml:"combine,omitempty" json:"combine,omitempty"`
	}

	// RuleSpec is one declaration block with its selector chain. Media, when
	// set, places the rule inside a @media block with that condition.
	RuleSpec struct {
		Selector   SelectorSpec      `yaml:"selector" json:"selector"`
		Combine    *CombineSpec      `yaml:"combine,omitempty" json:"combine,omitempty"`
		Media      string            `yaml:"media,omitempty" json:"media,omitempty"`
		Properties map[string]string `yaml:"properties" json:"properties" validate:"required,dive,required"`
	}

	// FontSpec declares an @font-face source.
	FontSpec struct {
		Family string `yaml:"family" json:"family" validate:"required"`
		Src    string `yaml:"src" json:"src" validate:"required"`
		Style  string `yaml:"style,omitempty" json:"style,omitempty"`
		Weight string `yaml:"weight,omitempty" json:"weight,omitempty"`
	}

	// ImportSpec declares an @import with an optional media condition.
	ImportSpec struct {
		URL   string `yaml:"url" json:"url" validate:"required"`
		Media string `yaml:"media,omitempty" json:"media,omitempty"`
	}

	// Recipe is a complete theme recipe.
	Recipe struct {
		ID       string            `yaml:"id,omitempty" json:"id,omitempty"`
		Name     string            `yaml:"name" json:"name" validate:"required"`
		Palette  map[string]string `yaml:"palette,omitempty" json:"palette,omitempty" validate:"dive,required"`
		Imports  []ImportSpec      `yaml:"imports,omitempty" json:"imports,omitempty" validate:"dive"`
		Rules    []RuleSpec        `yaml:"rules,omitempty" json:"rules,omitempty" validate:"dive"`
		Fonts    []FontSpec        `yaml:"fonts,omitempty" json:"fonts,omitempty" validate:"dive"`
		Includes []string          `yaml:"includes,omitempty" json:"includes,omitempty" validate:"dive,required"`
	}
)

// Parse decodes a recipe from YAML. Unknown fields are rejected so typos do
// not silently drop parts of a theme, then declared validation runs.
func Parse(r io.Reader) (*Recipe, error) {
	var rec Recipe
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("unable to decode recipe: %w", err)
	}
	if err := gencfg.Validate(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Load reads and parses a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read recipe file: %w", err)
	}
	rec, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to parse recipe %s: %w", path, err)
	}
	return rec, nil
}

// EnsureID makes sure the recipe carries a usable id, assigning a fresh UUID
// when the current one is missing or not parsable.
func (r *Recipe) EnsureID(log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := uuid.Parse(r.ID); err == nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to assign recipe id: %w", err)
	}
	if len(r.ID) > 0 {
		log.Warn("Replacing unusable recipe id", zap.String("id", r.ID), zap.String("new", id.String()))
	}
	r.ID = id.String()
	return nil
}

// NormalizedName returns a file-safe, transliterated form of the recipe name.
func (r *Recipe) NormalizedName() string {
	return slug.Make(r.Name)
}

// PaletteNames returns palette color names in natural sort order, so that
// "tone2" lists before "tone10".
func (r *Recipe) PaletteNames() []string {
	names := slices.Collect(maps.Keys(r.Palette))
	sort.Sort(natural.StringSlice(names))
	return names
}

// paletteRefPattern matches $name palette references in property values.
var paletteRefPattern = regexp.MustCompile(`\$([A-Za-z][A-Za-z0-9_-]*)`)

// ResolveValue expands $name palette references in a property value. A
// reference to a color the palette does not define is an error.
func (r *Recipe) ResolveValue(value string) (string, error) {
	var missing string
	out := paletteRefPattern.ReplaceAllStringFunc(value, func(m string) string {
		name := m[1:]
		if c, ok := r.Palette[name]; ok {
			return c
		}
		if missing == "" {
			missing = name
		}
		return m
	})
	if missing != "" {
		return "", fmt.Errorf("unknown palette reference %q in value %q", missing, value)
	}
	return out, nil
}
