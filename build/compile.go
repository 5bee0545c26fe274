package build

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"cssg/config"
	"cssg/recipe"
	"cssg/stylesheet"
)

// renderedRule is a rule with its selector chain already built and palette
// references resolved, ready for ordering and media grouping.
type renderedRule struct {
	selector string
	media    string
	props    map[string]string
}

// Compile renders a recipe into a stylesheet: imports first, then font faces,
// then rules in the configured order and finally included CSS carried through
// as formatted raw blocks. Selector construction and palette resolution
// problems are recipe data errors and fail the compilation, trouble inside
// included files only produces warnings.
func Compile(ctx context.Context, rcp *recipe.Recipe, fsys fs.FS, cfg *config.DocumentConfig, log *zap.Logger) (*stylesheet.Stylesheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	css := &stylesheet.Stylesheet{}

	for _, imp := range rcp.Imports {
		css.AddImport(imp.URL, imp.Media)
	}

	for _, f := range rcp.Fonts {
		css.AddFontFace(stylesheet.FontFace{
			Family: f.Family,
			Src:    stylesheet.URLValue(f.Src),
			Style:  f.Style,
			Weight: f.Weight,
		})
	}

	rules, err := renderRules(rcp)
	if err != nil {
		return nil, err
	}
	if cfg.RuleOrder == config.RuleOrderSorted {
		sort.SliceStable(rules, func(i, j int) bool {
			return natural.Less(rules[i].selector, rules[j].selector)
		})
	}
	appendRules(css, rules)

	for _, name := range rcp.Includes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := appendInclude(css, fsys, name, log); err != nil {
			return nil, err
		}
	}

	return css, nil
}

// renderRules builds selector texts and resolves palette references for all
// rules, keeping recipe order.
func renderRules(rcp *recipe.Recipe) ([]renderedRule, error) {
	rules := make([]renderedRule, 0, len(rcp.Rules))
	for i := range rcp.Rules {
		r := &rcp.Rules[i]
		text, err := r.SelectorText()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		props := make(map[string]string, len(r.Properties))
		for name, value := range r.Properties {
			resolved, err := rcp.ResolveValue(value)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): %w", i+1, text, err)
			}
			props[name] = resolved
		}
		rules = append(rules, renderedRule{selector: text, media: r.Media, props: props})
	}
	return rules, nil
}

// appendRules adds rendered rules to the stylesheet, folding consecutive
// rules that share a media condition into one @media block.
func appendRules(css *stylesheet.Stylesheet, rules []renderedRule) {
	for i := 0; i < len(rules); {
		r := rules[i]
		if r.media == "" {
			css.AddRule(stylesheet.Rule{Selectors: []string{r.selector}, Properties: r.props})
			i++
			continue
		}
		block := stylesheet.MediaBlock{Condition: r.media}
		j := i
		for ; j < len(rules) && rules[j].media == r.media; j++ {
			block.Rules = append(block.Rules, stylesheet.Rule{
				Selectors:  []string{rules[j].selector},
				Properties: rules[j].props,
			})
		}
		css.AddMediaBlock(block)
		i = j
	}
}

// appendInclude reads an included stylesheet from the recipe's filesystem and
// carries it through as a raw block. The file is run through the formatter so
// bundled output stays uniform, with formatting trouble downgraded to
// warnings. fs.ReadFile refuses absolute and traversal paths, which keeps
// includes inside the recipe's directory.
func appendInclude(css *stylesheet.Stylesheet, fsys fs.FS, name string, log *zap.Logger) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("unable to read included stylesheet %s: %w", name, err)
	}

	formatted, warnings := stylesheet.Format(data)
	for _, w := range warnings {
		log.Warn("Problem formatting included stylesheet",
			zap.String("include", name),
			zap.String("problem", w))
		css.Warnf("include %s: %s", name, w)
	}

	text := fmt.Sprintf("/* include: %s */\n%s", name, formatted)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	css.AddRaw(text)
	return nil
}
