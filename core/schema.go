package core

import "fmt"

// FieldType declares how a metadata field is typed and which filter
// operators apply to it.
type FieldType int

const (
	// FieldString is a scalar string field; supports equality filters.
	FieldString FieldType = iota + 1
	// FieldNumber is a scalar numeric field; supports equality filters.
	FieldNumber
	// FieldStringSet is a delimited multi-value field; supports containment filters.
	FieldStringSet
)

// reservedFieldNames are names the store uses for non-metadata record parts.
var reservedFieldNames = map[string]bool{
	"id": true, "text": true, "vector": true, "score": true,
}

// Schema declares the metadata fields of an index and their types.
// It is fixed at ingestion time; records carrying fields of other types
// are rejected rather than coerced.
type Schema map[string]FieldType

// NewSchema validates field names and types and creates a Schema.
func NewSchema(fields map[string]FieldType) (Schema, error) {
	s := make(Schema, len(fields))
	for name, ft := range fields {
		if name == "" {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, ErrEmptyFieldName)
		}
		if reservedFieldNames[name] {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidSchema, ErrReservedFieldName, name)
		}
		if ft != FieldString && ft != FieldNumber && ft != FieldStringSet {
			return nil, fmt.Errorf("%w: %w: field %q", ErrInvalidSchema, ErrInvalidFieldType, name)
		}
		s[name] = ft
	}
	return s, nil
}

// FieldType returns the declared type of a field and whether it exists.
func (s Schema) FieldType(name string) (FieldType, bool) {
	ft, ok := s[name]
	return ft, ok
}

// valueKindFor maps a field type to the value kind it stores.
func valueKindFor(ft FieldType) ValueKind {
	switch ft {
	case FieldNumber:
		return KindNumber
	case FieldStringSet:
		return KindStringSet
	default:
		return KindString
	}
}

// ValidateMetadata checks that every metadata entry is declared by the
// schema with a matching value kind.
func (s Schema) ValidateMetadata(md Metadata) error {
	for _, e := range md {
		ft, ok := s[e.Key]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, e.Key)
		}
		if e.Value.Kind() != valueKindFor(ft) {
			return fmt.Errorf("%w: field %q", ErrInvalidFieldType, e.Key)
		}
	}
	return nil
}
