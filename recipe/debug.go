package recipe

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"cssg/utils/debug"
)

// String returns a readable tree of the whole Recipe. It exists solely for
// manual inspection during debugging.
func (r *Recipe) String() string {
	if r == nil {
		return "<nil Recipe>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Recipe [%s]", r.ID)
	tw.TextBlock(1, "name", r.Name)

	if len(r.Palette) > 0 {
		tw.Line(1, "Palette: %d", len(r.Palette))
		keys := slices.Collect(maps.Keys(r.Palette))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.TextBlock(2, k, r.Palette[k])
		}
	}

	if len(r.Imports) > 0 {
		tw.Line(1, "Imports: %d", len(r.Imports))
		for i := range r.Imports {
			tw.Line(2, "Import[%d] url[%q] media[%q]", i, r.Imports[i].URL, r.Imports[i].Media)
		}
	}

	if len(r.Rules) > 0 {
		tw.Line(1, "Rules: %d", len(r.Rules))
		for i := range r.Rules {
			sel, err := r.Rules[i].SelectorText()
			if err != nil {
				sel = "!" + err.Error()
			}
			tw.Line(2, "Rule[%d]", i)
			tw.TextBlock(3, "selector", sel)
			if len(r.Rules[i].Media) > 0 {
				tw.TextBlock(3, "media", r.Rules[i].Media)
			}
			keys := slices.Collect(maps.Keys(r.Rules[i].Properties))
			sort.Sort(natural.StringSlice(keys))
			for _, k := range keys {
				tw.TextBlock(3, k, r.Rules[i].Properties[k])
			}
		}
	}

	if len(r.Fonts) > 0 {
		tw.Line(1, "Fonts: %d", len(r.Fonts))
		for i := range r.Fonts {
			f := &r.Fonts[i]
			tw.Line(2, "Font[%d] family[%q] src[%q] style[%q] weight[%q]", i, f.Family, f.Src, f.Style, f.Weight)
		}
	}

	if len(r.Includes) > 0 {
		tw.List(1, "Includes", r.Includes)
	}
	return tw.String()
}
