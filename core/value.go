package core

import (
	"strconv"
	"strings"
)

// SetDelimiter separates the members of a StringSet value in its stored form.
// Matches the pipe-joined encoding of the upstream dataset
// (e.g. "cardiology|orthopedics").
const SetDelimiter = "|"

// ValueKind identifies the variant held by a metadata Value.
type ValueKind int

const (
	// KindString is a scalar string field.
	KindString ValueKind = iota + 1
	// KindNumber is a scalar numeric field.
	KindNumber
	// KindStringSet is a multi-value field stored as a delimited string.
	KindStringSet
)

// Value is a typed metadata field value: String, Number, or StringSet.
// The set variant keeps its members joined with SetDelimiter so the stored
// form round-trips byte-for-byte.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// String creates a scalar string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a scalar numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// StringSet creates a multi-value string set.
// Empty and whitespace-only members are dropped.
func StringSet(members ...string) Value {
	kept := make([]string, 0, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m != "" {
			kept = append(kept, m)
		}
	}
	return Value{kind: KindStringSet, str: strings.Join(kept, SetDelimiter)}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload for String and StringSet values.
// For StringSet values this is the delimited stored form.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload for Number values.
func (v Value) Num() float64 { return v.num }

// Members splits a StringSet value into its members.
// Returns nil for non-set values and for the empty set.
func (v Value) Members() []string {
	if v.kind != KindStringSet || v.str == "" {
		return nil
	}
	return strings.Split(v.str, SetDelimiter)
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Contains reports whether member is one of a StringSet value's members.
// Always false for non-set values.
func (v Value) Contains(member string) bool {
	for _, m := range v.Members() {
		if m == member {
			return true
		}
	}
	return false
}

// Display formats the value for human-readable output.
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}

// MetadataEntry is one named metadata field.
type MetadataEntry struct {
	Key   string
	Value Value
}

// Metadata is the ordered set of typed fields attached to a record.
// Entry order is preserved so serialization is deterministic.
type Metadata []MetadataEntry

// Get returns the value for key and whether the key is present.
func (m Metadata) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Add appends a field, replacing any existing entry with the same key in place.
func (m Metadata) Add(key string, value Value) Metadata {
	for i, e := range m {
		if e.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, MetadataEntry{Key: key, Value: value})
}
