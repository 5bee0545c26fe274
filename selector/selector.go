// Package selector assembles CSS selector strings from typed fragments.
// Fragments are appended in a fixed stage order (element, id, class,
// attribute, pseudo-class, pseudo-element) and rendered by plain
// concatenation, so construction never involves parsing selector text.
package selector

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

// Misuse errors reported by fragment operations. Match with errors.Is.
var (
	ErrDuplicateSingleton = errors.New("element, id and pseudo-element may occur at most once")
	ErrOrderViolation     = errors.New("selector fragments must appear in the order element, id, class, attribute, pseudo-class, pseudo-element")
)

// Kind identifies the stage a selector fragment belongs to. The declaration
// order is the required append order.
type Kind int

const (
	KindElement       Kind = iota // a
	KindID                        // #main
	KindClass                     // .container
	KindAttribute                 // [href$=".png"]
	KindPseudoClass               // :hover
	KindPseudoElement             // ::before
)

// String returns the stage name as used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindID:
		return "id"
	case KindClass:
		return "class"
	case KindAttribute:
		return "attribute"
	case KindPseudoClass:
		return "pseudo-class"
	case KindPseudoElement:
		return "pseudo-element"
	default:
		return "unknown"
	}
}

// singleton reports whether fragments of this kind may occur at most once.
func (k Kind) singleton() bool {
	switch k {
	case KindElement, KindID, KindPseudoElement:
		return true
	default:
		return false
	}
}

// Fragment is one rendered piece of a selector. Immutable once created.
type Fragment struct {
	Kind Kind   // stage the fragment belongs to
	Text string // rendered form, e.g. ".container"
}

// Builder accumulates selector fragments in call order and renders them on
// demand. The zero value is ready to use; the package-level factories seed a
// builder with its first fragment. Methods return the receiver so calls
// chain; a call that violates stage order or singleton uniqueness appends
// nothing and records the first such error for Err. A builder is owned by a
// single goroutine, there is no internal locking.
type Builder struct {
	fragments []Fragment
	stage     Kind   // lowest kind still accepted
	composite string // set for combine-built builders instead of fragments
	combined  bool
	err       error
}

// Element starts a selector with an element name, e.g. "a".
func Element(value string) *Builder {
	return new(Builder).Element(value)
}

// ID starts a selector with an id fragment, rendered as "#value".
func ID(value string) *Builder {
	return new(Builder).ID(value)
}

// Class starts a selector with a class fragment, rendered as ".value".
func Class(value string) *Builder {
	return new(Builder).Class(value)
}

// Attribute starts a selector with an attribute fragment. The expression is
// taken verbatim, without validation, and rendered as "[expr]".
func Attribute(expr string) *Builder {
	return new(Builder).Attribute(expr)
}

// PseudoClass starts a selector with a pseudo-class fragment, rendered as ":value".
func PseudoClass(value string) *Builder {
	return new(Builder).PseudoClass(value)
}

// PseudoElement starts a selector with a pseudo-element fragment, rendered as "::value".
func PseudoElement(value string) *Builder {
	return new(Builder).PseudoElement(value)
}

// Combine joins two selectors with a combinator token, producing a new
// builder. Both operands are rendered immediately, so later changes to them
// do not affect the result. The combinator is not validated, any token is
// joined with single spaces on both sides. Errors recorded on the operands
// carry over into the result.
func Combine(left *Builder, combinator string, right *Builder) *Builder {
	return &Builder{
		composite: left.String() + " " + combinator + " " + right.String(),
		combined:  true,
		err:       multierr.Append(left.err, right.err),
	}
}

// Element appends an element fragment, rendered as "value".
func (b *Builder) Element(value string) *Builder {
	return b.add(KindElement, value)
}

// ID appends an id fragment, rendered as "#value".
func (b *Builder) ID(value string) *Builder {
	return b.add(KindID, "#"+value)
}

// Class appends a class fragment, rendered as ".value".
func (b *Builder) Class(value string) *Builder {
	return b.add(KindClass, "."+value)
}

// Attribute appends an attribute fragment, rendered as "[expr]".
func (b *Builder) Attribute(expr string) *Builder {
	return b.add(KindAttribute, "["+expr+"]")
}

// PseudoClass appends a pseudo-class fragment, rendered as ":value".
func (b *Builder) PseudoClass(value string) *Builder {
	return b.add(KindPseudoClass, ":"+value)
}

// PseudoElement appends a pseudo-element fragment, rendered as "::value".
func (b *Builder) PseudoElement(value string) *Builder {
	return b.add(KindPseudoElement, "::"+value)
}

func (b *Builder) add(k Kind, text string) *Builder {
	if b.combined {
		// Combined selectors are final, they have no stages left.
		b.fail(ErrOrderViolation)
		return b
	}
	if k.singleton() && b.has(k) {
		b.fail(ErrDuplicateSingleton)
		return b
	}
	if k < b.stage {
		b.fail(ErrOrderViolation)
		return b
	}
	b.fragments = append(b.fragments, Fragment{Kind: k, Text: text})
	if k.singleton() {
		b.stage = k + 1
	} else {
		b.stage = k
	}
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) has(k Kind) bool {
	for _, f := range b.fragments {
		if f.Kind == k {
			return true
		}
	}
	return false
}

// String renders the selector: fragment texts concatenated in call order with
// no separators, or the captured composite for a combine-built builder. It is
// idempotent and always reflects the successfully appended fragments, even
// after a rejected call.
func (b *Builder) String() string {
	if b.combined {
		return b.composite
	}
	var sb strings.Builder
	for _, f := range b.fragments {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// Err returns the first misuse recorded on this builder, nil when every call
// so far was accepted.
func (b *Builder) Err() error {
	return b.err
}

// Result returns the rendered selector together with any recorded misuse.
func (b *Builder) Result() (string, error) {
	return b.String(), b.err
}

// Fragments returns a copy of the accumulated fragments in call order. It is
// empty for combine-built builders.
func (b *Builder) Fragments() []Fragment {
	if len(b.fragments) == 0 {
		return nil
	}
	out := make([]Fragment, len(b.fragments))
	copy(out, b.fragments)
	return out
}
