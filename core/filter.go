package core

import "fmt"

// PredicateOp is a filter operator. The set is closed: equality on scalar
// fields and containment on set fields. Anything else fails at filter
// construction, before the index is touched.
type PredicateOp int

const (
	// OpEquals matches records whose field equals the predicate value exactly.
	OpEquals PredicateOp = iota + 1
	// OpContains matches records whose set field includes the predicate member.
	OpContains
)

// Predicate is a single field condition inside a Filter.
type Predicate struct {
	field  string
	op     PredicateOp
	value  Value  // comparison value for OpEquals
	member string // set member for OpContains
}

// Equals creates an equality predicate on a scalar field.
func Equals(field string, value Value) Predicate {
	return Predicate{field: field, op: OpEquals, value: value}
}

// Contains creates a containment predicate on a set-valued field.
func Contains(field, member string) Predicate {
	return Predicate{field: field, op: OpContains, member: member}
}

// Field returns the metadata field the predicate applies to.
func (p Predicate) Field() string { return p.field }

// Op returns the predicate operator.
func (p Predicate) Op() PredicateOp { return p.op }

// matches evaluates the predicate against a single field value.
func (p Predicate) matches(v Value) bool {
	switch p.op {
	case OpEquals:
		return v.Equal(p.value)
	case OpContains:
		return v.Contains(p.member)
	default:
		return false
	}
}

// Filter is an AND-combined set of predicates over record metadata.
// There is no OR or NOT; callers needing disjunction issue multiple
// queries and merge the results themselves.
type Filter struct {
	preds []Predicate
}

// NewFilter validates the predicates against the schema and creates a Filter.
// Validation fails fast on unknown fields, operators incompatible with the
// field's declared type, and empty comparison values.
func NewFilter(schema Schema, preds ...Predicate) (*Filter, error) {
	for _, p := range preds {
		if p.field == "" {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, ErrEmptyFieldName)
		}
		ft, ok := schema.FieldType(p.field)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidFilter, ErrUnknownField, p.field)
		}
		switch p.op {
		case OpEquals:
			if ft == FieldStringSet {
				return nil, fmt.Errorf("%w: %w: equality on set field %q", ErrInvalidFilter, ErrPredicateType, p.field)
			}
			if p.value.Kind() != valueKindFor(ft) {
				return nil, fmt.Errorf("%w: %w: field %q", ErrInvalidFilter, ErrInvalidFieldType, p.field)
			}
			if ft == FieldString && p.value.Str() == "" {
				return nil, fmt.Errorf("%w: %w: field %q", ErrInvalidFilter, ErrEmptyPredicateValue, p.field)
			}
		case OpContains:
			if ft != FieldStringSet {
				return nil, fmt.Errorf("%w: %w: containment on scalar field %q", ErrInvalidFilter, ErrPredicateType, p.field)
			}
			if p.member == "" {
				return nil, fmt.Errorf("%w: %w: field %q", ErrInvalidFilter, ErrEmptyPredicateValue, p.field)
			}
		default:
			return nil, fmt.Errorf("%w: unsupported operator %d on field %q", ErrInvalidFilter, p.op, p.field)
		}
	}
	return &Filter{preds: preds}, nil
}

// Predicates returns the filter's predicates.
func (f *Filter) Predicates() []Predicate { return f.preds }

// IsEmpty reports whether the filter has no predicates.
func (f *Filter) IsEmpty() bool { return f == nil || len(f.preds) == 0 }

// Matches reports whether metadata satisfies every predicate.
// A predicate on a field the record does not carry never matches.
func (f *Filter) Matches(md Metadata) bool {
	if f == nil {
		return true
	}
	for _, p := range f.preds {
		v, ok := md.Get(p.field)
		if !ok || !p.matches(v) {
			return false
		}
	}
	return true
}
