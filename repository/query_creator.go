/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"reflect"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/predicate"
)

// QueryCreator binds method arguments to the parts of a PartTree and builds
// the predicate: parts of one OR group are AND-ed, groups are OR-ed.
type QueryCreator struct {
	tree *PartTree
}

func NewQueryCreator(tree *PartTree) *QueryCreator {
	return &QueryCreator{tree: tree}
}

// Create builds the predicate from args, which must hold exactly the values
// the parts bind. A tree without conditions yields nil.
func (c *QueryCreator) Create(args []any) (predicate.Predicate, error) {
	if want := c.tree.NumberOfArguments(); len(args) != want {
		return nil, errors.NewValidationError("args", fmt.Sprintf("query binds %d arguments, got %d", want, len(args)))
	}
	if len(c.tree.Or) == 0 {
		return nil, nil
	}

	next := 0
	groups := make([]predicate.Predicate, 0, len(c.tree.Or))
	for _, group := range c.tree.Or {
		parts := make([]predicate.Predicate, 0, len(group))
		for _, part := range group {
			n := part.Type.NumberOfArguments()
			p, err := c.from(part, args[next:next+n])
			if err != nil {
				return nil, err
			}
			next += n
			parts = append(parts, p)
		}
		groups = append(groups, predicate.And(parts...))
	}
	return predicate.Or(groups...), nil
}

func (c *QueryCreator) from(part Part, args []any) (predicate.Predicate, error) {
	prop := part.Property

	switch part.Type {
	case SimpleProperty:
		if s, ok := args[0].(string); ok && part.IgnoreCase {
			return predicate.EqualIgnoreCase(prop, s), nil
		}
		return predicate.Equal(prop, args[0]), nil
	case NegatingSimpleProperty:
		if s, ok := args[0].(string); ok && part.IgnoreCase {
			return predicate.And(predicate.Not(predicate.EqualIgnoreCase(prop, s)), predicate.Not(predicate.IsNull(prop))), nil
		}
		return predicate.NotEqual(prop, args[0]), nil
	case Between:
		return predicate.Between(prop, args[0], args[1]), nil
	case IsNull:
		return predicate.IsNull(prop), nil
	case IsNotNull, Exists:
		return predicate.Not(predicate.IsNull(prop)), nil
	case LessThan, Before:
		return predicate.LessThan(prop, args[0]), nil
	case LessThanEqual:
		return predicate.LessEqual(prop, args[0]), nil
	case GreaterThan, After:
		return predicate.GreaterThan(prop, args[0]), nil
	case GreaterThanEqual:
		return predicate.GreaterEqual(prop, args[0]), nil
	case Like, NotLike, StartingWith, EndingWith:
		s, err := stringArg(part, args[0])
		if err != nil {
			return nil, err
		}
		var pattern string
		switch part.Type {
		case StartingWith:
			pattern = predicate.EscapeLike(s) + "%"
		case EndingWith:
			pattern = "%" + predicate.EscapeLike(s)
		default:
			pattern = s
		}
		p := predicate.Like(prop, pattern)
		if part.IgnoreCase {
			p = predicate.ILike(prop, pattern)
		}
		if part.Type == NotLike {
			return predicate.Not(p), nil
		}
		return p, nil
	case Containing, NotContaining:
		p := predicate.Contains(prop, args[0])
		if part.IgnoreCase {
			p = predicate.ContainsIgnoreCase(prop, args[0])
		}
		if part.Type == NotContaining {
			return predicate.Not(p), nil
		}
		return p, nil
	case In, NotIn:
		p := predicate.In(prop, flatten(args[0])...)
		if part.Type == NotIn {
			return predicate.Not(p), nil
		}
		return p, nil
	case IsEmpty:
		return predicate.IsEmpty(prop), nil
	case IsNotEmpty:
		return predicate.Not(predicate.IsEmpty(prop)), nil
	case Regex:
		s, err := stringArg(part, args[0])
		if err != nil {
			return nil, err
		}
		if part.IgnoreCase {
			s = "(?i)" + s
		}
		p, err := predicate.Regex(prop, s)
		if err != nil {
			return nil, errors.NewValidationError(prop, err.Error())
		}
		return p, nil
	case True:
		return predicate.Equal(prop, true), nil
	case False:
		return predicate.Equal(prop, false), nil
	}
	return nil, errors.NewUnsupportedError("query creator", part.Type)
}

func stringArg(part Part, arg any) (string, error) {
	s, ok := arg.(string)
	if !ok {
		return "", errors.NewValidationError(part.Property, fmt.Sprintf("expects a string argument, got %T", arg))
	}
	return s, nil
}

// flatten expands a slice or array argument into its elements.
func flatten(arg any) []any {
	rv := reflect.ValueOf(arg)
	if arg == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return []any{arg}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
