package recipe

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rupor-github/gencfg"
)

// MarshalTo writes the recipe as indented JSON, suitable for embedding a
// machine-readable copy of the recipe next to its compiled output.
func (r *Recipe) MarshalTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("unable to serialize recipe: %w", err)
	}
	return nil
}

// FromJSON reads a recipe back from its JSON form. Like Parse it rejects
// unknown fields and validates the result.
func FromJSON(r io.Reader) (*Recipe, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var rcp Recipe
	if err := dec.Decode(&rcp); err != nil {
		return nil, fmt.Errorf("unable to deserialize recipe: %w", err)
	}
	if err := gencfg.Validate(&rcp); err != nil {
		return nil, err
	}
	return &rcp, nil
}
