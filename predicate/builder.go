/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

// Builder composes a predicate fluently:
//
//	p := predicate.NewBuilder().
//		Attr("age").GreaterEqual(18).
//		Attr("name").Like("A%").
//		OrAttr("vip").Equal(true)
//
// Conditions added with Attr are AND-ed onto what was built so far, those added
// with OrAttr are OR-ed. A Builder is itself a Predicate.
type Builder struct {
	current Predicate
	err     error
}

// NewBuilder returns an empty builder, which matches everything.
func NewBuilder() *Builder {
	return &Builder{}
}

// Apply evaluates the built predicate. A builder holding an error matches nothing.
func (b *Builder) Apply(entry Entry) bool {
	if b.err != nil {
		return false
	}
	return b.current == nil || b.current.Apply(entry)
}

// Build returns the composed predicate, or the first error recorded while building.
func (b *Builder) Build() (Predicate, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.current == nil {
		return True(), nil
	}
	return b.current, nil
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error { return b.err }

// And AND-s p onto the builder.
func (b *Builder) And(p Predicate) *Builder {
	if b.current == nil {
		b.current = p
	} else {
		b.current = And(b.current, p)
	}
	return b
}

// Or OR-s p onto the builder.
func (b *Builder) Or(p Predicate) *Builder {
	if b.current == nil {
		b.current = p
	} else {
		b.current = Or(b.current, p)
	}
	return b
}

// Negate negates everything built so far.
func (b *Builder) Negate() *Builder {
	b.current = Not(b.current)
	return b
}

// Attr starts a condition on attribute that is AND-ed onto the builder.
func (b *Builder) Attr(attribute string) Condition {
	return Condition{builder: b, attribute: attribute, combine: b.And}
}

// OrAttr starts a condition on attribute that is OR-ed onto the builder.
func (b *Builder) OrAttr(attribute string) Condition {
	return Condition{builder: b, attribute: attribute, combine: b.Or}
}

// Condition is a pending comparison on one attribute.
type Condition struct {
	builder   *Builder
	attribute string
	combine   func(Predicate) *Builder
}

func (c Condition) Equal(v any) *Builder        { return c.combine(Equal(c.attribute, v)) }
func (c Condition) NotEqual(v any) *Builder     { return c.combine(NotEqual(c.attribute, v)) }
func (c Condition) GreaterThan(v any) *Builder  { return c.combine(GreaterThan(c.attribute, v)) }
func (c Condition) GreaterEqual(v any) *Builder { return c.combine(GreaterEqual(c.attribute, v)) }
func (c Condition) LessThan(v any) *Builder     { return c.combine(LessThan(c.attribute, v)) }
func (c Condition) LessEqual(v any) *Builder    { return c.combine(LessEqual(c.attribute, v)) }
func (c Condition) Between(from, to any) *Builder {
	return c.combine(Between(c.attribute, from, to))
}
func (c Condition) In(values ...any) *Builder { return c.combine(In(c.attribute, values...)) }
func (c Condition) Like(p string) *Builder    { return c.combine(Like(c.attribute, p)) }
func (c Condition) ILike(p string) *Builder   { return c.combine(ILike(c.attribute, p)) }
func (c Condition) IsNull() *Builder          { return c.combine(IsNull(c.attribute)) }

// Regex adds a regular expression condition. An invalid expression is recorded
// on the builder.
func (c Condition) Regex(expr string) *Builder {
	p, err := Regex(c.attribute, expr)
	if err != nil {
		if c.builder.err == nil {
			c.builder.err = err
		}
		return c.builder
	}
	return c.combine(p)
}
