package config

// Specification of requested output type.
// ENUM(css, bundle)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtCss:
		return ".css"
	case OutputFmtBundle:
		return ".zip"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Specification of rendered rule ordering.
// ENUM(recipe, sorted)
type RuleOrder int

// Specification of palette swatch cell shape.
// ENUM(square, circle)
type SwatchShape int
