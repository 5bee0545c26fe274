package selector_test

import (
	"errors"
	"testing"

	"cssg/selector"
)

// TestFragmentRendering tests per-kind rendering and concatenation order
func TestFragmentRendering(t *testing.T) {
	tests := []struct {
		name string
		b    *selector.Builder
		want string
	}{
		{
			name: "element only",
			b:    selector.Element("div"),
			want: "div",
		},
		{
			name: "id only",
			b:    selector.ID("main"),
			want: "#main",
		},
		{
			name: "class only",
			b:    selector.Class("container"),
			want: ".container",
		},
		{
			name: "attribute only",
			b:    selector.Attribute(`href$=".png"`),
			want: `[href$=".png"]`,
		},
		{
			name: "pseudo-class only",
			b:    selector.PseudoClass("hover"),
			want: ":hover",
		},
		{
			name: "pseudo-element only",
			b:    selector.PseudoElement("before"),
			want: "::before",
		},
		{
			name: "element attribute pseudo-class",
			b:    selector.Element("a").Attribute(`href$=".png"`).PseudoClass("focus"),
			want: `a[href$=".png"]:focus`,
		},
		{
			name: "id with repeated classes",
			b:    selector.ID("main").Class("container").Class("editable"),
			want: "#main.container.editable",
		},
		{
			name: "all six stages",
			b: selector.Element("li").ID("first").Class("menu").
				Attribute("data-index='1'").PseudoClass("hover").PseudoElement("after"),
			want: "li#first.menu[data-index='1']:hover::after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.b.Result()
			if err != nil {
				t.Fatalf("Result() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Result() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDuplicateSingleton tests that element, id and pseudo-element reject repeats
func TestDuplicateSingleton(t *testing.T) {
	tests := []struct {
		name string
		b    *selector.Builder
		want string // rendering must not include the rejected fragment
	}{
		{
			name: "element twice",
			b:    selector.Element("div").Element("span"),
			want: "div",
		},
		{
			name: "element twice with calls in between",
			b:    selector.Element("div").Class("wide").PseudoClass("hover").Element("span"),
			want: "div.wide:hover",
		},
		{
			name: "id twice",
			b:    selector.ID("main").ID("other"),
			want: "#main",
		},
		{
			name: "pseudo-element twice",
			b:    selector.Element("p").PseudoElement("before").PseudoElement("after"),
			want: "p::before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.b.Err(), selector.ErrDuplicateSingleton) {
				t.Errorf("Err() = %v, want ErrDuplicateSingleton", tt.b.Err())
			}
			if got := tt.b.String(); got != tt.want {
				t.Errorf("String() after rejected call = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestOrderViolation tests that fragments cannot revisit passed stages
func TestOrderViolation(t *testing.T) {
	tests := []struct {
		name string
		b    *selector.Builder
		want string
	}{
		{
			name: "class then id",
			b:    selector.Class("container").ID("main"),
			want: ".container",
		},
		{
			name: "id then element",
			b:    selector.ID("main").Element("div"),
			want: "#main",
		},
		{
			name: "pseudo-class then attribute",
			b:    selector.Element("a").PseudoClass("hover").Attribute("href"),
			want: "a:hover",
		},
		{
			name: "pseudo-element then class",
			b:    selector.PseudoElement("before").Class("note"),
			want: "::before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.b.Err(), selector.ErrOrderViolation) {
				t.Errorf("Err() = %v, want ErrOrderViolation", tt.b.Err())
			}
			if got := tt.b.String(); got != tt.want {
				t.Errorf("String() after rejected call = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRepeatableStages tests that class, attribute and pseudo-class repeat freely
func TestRepeatableStages(t *testing.T) {
	b := selector.Class("a").Class("b").Class("c").
		Attribute("x").Attribute("y").
		PseudoClass("hover").PseudoClass("focus")
	if err := b.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	const want = ".a.b.c[x][y]:hover:focus"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	frags := b.Fragments()
	if len(frags) != 7 {
		t.Fatalf("Fragments() returned %d fragments, want 7", len(frags))
	}
	if frags[0].Kind != selector.KindClass || frags[0].Text != ".a" {
		t.Errorf("Fragments()[0] = %+v, want class .a", frags[0])
	}
}

// TestCombine tests combinator joins, including nesting and the documented
// multi-space artifact of combining with a space token
func TestCombine(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		got := selector.Combine(selector.Element("p"), ">", selector.Class("note")).String()
		if want := "p > .note"; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("combinator token is not validated", func(t *testing.T) {
		b := selector.Combine(selector.Element("p"), "??", selector.Element("q"))
		if err := b.Err(); err != nil {
			t.Fatalf("Err() = %v, want nil", err)
		}
		if got, want := b.String(), "p ?? q"; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("nested", func(t *testing.T) {
		inner := selector.Combine(
			selector.Element("tr").PseudoClass("nth-of-type(even)"),
			" ",
			selector.Element("td").PseudoClass("nth-of-type(even)"),
		)
		outer := selector.Combine(selector.Element("table").ID("data"), "~", inner)

		const want = "table#data ~ tr:nth-of-type(even)   td:nth-of-type(even)"
		if got := outer.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})
}

// TestCombineCapturesOperands tests that combine renders both sides immediately
func TestCombineCapturesOperands(t *testing.T) {
	left := selector.Element("ul")
	right := selector.Element("li")
	combined := selector.Combine(left, ">", right)

	before := combined.String()
	left.Class("menu")
	right.PseudoClass("hover")

	if after := combined.String(); after != before {
		t.Errorf("combined result changed after operand mutation: %q -> %q", before, after)
	}
	if want := "ul > li"; before != want {
		t.Errorf("String() = %q, want %q", before, want)
	}
	// The operands themselves keep evolving independently.
	if got, want := left.String(), "ul.menu"; got != want {
		t.Errorf("left String() = %q, want %q", got, want)
	}
}

// TestCombinedBuilderRejectsFragments tests that a combined selector is final
func TestCombinedBuilderRejectsFragments(t *testing.T) {
	b := selector.Combine(selector.Element("p"), "+", selector.Element("q"))
	b.Class("late")
	if !errors.Is(b.Err(), selector.ErrOrderViolation) {
		t.Errorf("Err() = %v, want ErrOrderViolation", b.Err())
	}
	if got, want := b.String(), "p + q"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestCombineCarriesOperandErrors tests that operand misuse survives combining
func TestCombineCarriesOperandErrors(t *testing.T) {
	bad := selector.Element("div").Element("span")
	combined := selector.Combine(bad, " ", selector.Class("x"))
	if !errors.Is(combined.Err(), selector.ErrDuplicateSingleton) {
		t.Errorf("Err() = %v, want ErrDuplicateSingleton", combined.Err())
	}
	if _, err := combined.Result(); err == nil {
		t.Error("Result() error = nil, want operand error carried over")
	}
}

// TestStringIdempotent tests repeated rendering of an unmodified builder
func TestStringIdempotent(t *testing.T) {
	b := selector.Element("a").Attribute(`href$=".png"`).PseudoClass("focus")
	first := b.String()
	second := b.String()
	if first != second {
		t.Errorf("String() not idempotent: %q then %q", first, second)
	}

	c := selector.Combine(b, "~", selector.Class("x"))
	if c.String() != c.String() {
		t.Error("String() not idempotent on combined builder")
	}
}

// TestBuilderUsableAfterError tests that only the offending call is discarded
func TestBuilderUsableAfterError(t *testing.T) {
	b := selector.Element("div")
	b.Element("span") // rejected
	b.Class("wide")   // still at a valid stage, accepted

	if got, want := b.String(), "div.wide"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	// The first misuse stays on record.
	if !errors.Is(b.Err(), selector.ErrDuplicateSingleton) {
		t.Errorf("Err() = %v, want ErrDuplicateSingleton", b.Err())
	}
}

// TestKindString tests stage names used in diagnostics
func TestKindString(t *testing.T) {
	kinds := map[selector.Kind]string{
		selector.KindElement:       "element",
		selector.KindID:            "id",
		selector.KindClass:         "class",
		selector.KindAttribute:     "attribute",
		selector.KindPseudoClass:   "pseudo-class",
		selector.KindPseudoElement: "pseudo-element",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
