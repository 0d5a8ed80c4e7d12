package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored types. The metadata value
// union needs an explicit kind tag, so these are maintained by hand rather
// than generated; keep them in sync with the structs in models.go and
// value.go.

// IDMUS serializes record IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

// ValueMUS serializes metadata values as a kind tag followed by the payload.
var ValueMUS = valueMUS{}

type valueMUS struct{}

func (valueMUS) Size(v Value) int {
	size := varint.Int.Size(int(v.kind))
	switch v.kind {
	case KindNumber:
		size += raw.Float64.Size(v.num)
	default:
		size += ord.String.Size(v.str)
	}
	return size
}

func (valueMUS) Marshal(v Value, bs []byte) int {
	n := varint.Int.Marshal(int(v.kind), bs)
	switch v.kind {
	case KindNumber:
		n += raw.Float64.Marshal(v.num, bs[n:])
	default:
		n += ord.String.Marshal(v.str, bs[n:])
	}
	return n
}

func (valueMUS) Unmarshal(bs []byte) (Value, int, error) {
	kind, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return Value{}, n, err
	}
	v := Value{kind: ValueKind(kind)}
	switch v.kind {
	case KindNumber:
		var n1 int
		v.num, n1, err = raw.Float64.Unmarshal(bs[n:])
		n += n1
	case KindString, KindStringSet:
		var n1 int
		v.str, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
	default:
		return Value{}, n, fmt.Errorf("unknown value kind %d", kind)
	}
	return v, n, err
}

// MetadataMUS serializes ordered metadata as a count followed by entries.
var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (metadataMUS) Size(md Metadata) int {
	size := varint.Int.Size(len(md))
	for _, e := range md {
		size += ord.String.Size(e.Key)
		size += ValueMUS.Size(e.Value)
	}
	return size
}

func (metadataMUS) Marshal(md Metadata, bs []byte) int {
	n := varint.Int.Marshal(len(md), bs)
	for _, e := range md {
		n += ord.String.Marshal(e.Key, bs[n:])
		n += ValueMUS.Marshal(e.Value, bs[n:])
	}
	return n
}

func (metadataMUS) Unmarshal(bs []byte) (Metadata, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, fmt.Errorf("negative metadata count %d", count)
	}
	if count == 0 {
		return nil, n, nil
	}
	md := make(Metadata, 0, count)
	for i := 0; i < count; i++ {
		key, n1, err := ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		value, n2, err := ValueMUS.Unmarshal(bs[n:])
		n += n2
		if err != nil {
			return nil, n, err
		}
		md = append(md, MetadataEntry{Key: key, Value: value})
	}
	return md, n, nil
}

// RecordMUS serializes full records for storage.
var RecordMUS = recordMUS{}

type recordMUS struct{}

func (recordMUS) Size(r Record) int {
	size := IDMUS.Size(r.Id)
	size += ord.String.Size(r.Text)
	size += MetadataMUS.Size(r.Metadata)
	size += varint.Int.Size(len(r.Vector))
	size += len(r.Vector) * raw.Float32.Size(0)
	size += varint.Uint64.Size(r.Seq)
	size += varint.Int64.Size(r.InsertedAt.UnixMicro())
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	return size
}

func (recordMUS) Marshal(r Record, bs []byte) int {
	n := IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Text, bs[n:])
	n += MetadataMUS.Marshal(r.Metadata, bs[n:])
	n += varint.Int.Marshal(len(r.Vector), bs[n:])
	for _, f := range r.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += varint.Uint64.Marshal(r.Seq, bs[n:])
	n += varint.Int64.Marshal(r.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (recordMUS) Unmarshal(bs []byte) (Record, int, error) {
	var r Record
	id, n, err := IDMUS.Unmarshal(bs)
	if err != nil {
		return r, n, err
	}
	r.Id = id
	var n1 int
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	dim, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	if dim < 0 {
		return r, n, fmt.Errorf("negative vector length %d", dim)
	}
	if dim > 0 {
		r.Vector = make([]float32, dim)
		for i := 0; i < dim; i++ {
			r.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return r, n, err
			}
		}
	}
	r.Seq, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	insertedAt, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.InsertedAt = time.UnixMicro(insertedAt).UTC()
	updatedAt, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return r, n, nil
}

// SchemaMUS serializes schemas with fields sorted by name so the stored
// form is deterministic.
var SchemaMUS = schemaMUS{}

type schemaMUS struct{}

func (schemaMUS) sortedNames(s Schema) []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m schemaMUS) Size(s Schema) int {
	size := varint.Int.Size(len(s))
	for name, ft := range s {
		size += ord.String.Size(name)
		size += varint.Int.Size(int(ft))
	}
	return size
}

func (m schemaMUS) Marshal(s Schema, bs []byte) int {
	n := varint.Int.Marshal(len(s), bs)
	for _, name := range m.sortedNames(s) {
		n += ord.String.Marshal(name, bs[n:])
		n += varint.Int.Marshal(int(s[name]), bs[n:])
	}
	return n
}

func (schemaMUS) Unmarshal(bs []byte) (Schema, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, fmt.Errorf("negative schema field count %d", count)
	}
	s := make(Schema, count)
	for i := 0; i < count; i++ {
		name, n1, err := ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		ft, n2, err := varint.Int.Unmarshal(bs[n:])
		n += n2
		if err != nil {
			return nil, n, err
		}
		s[name] = FieldType(ft)
	}
	return s, n, nil
}
