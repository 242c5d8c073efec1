// Package wire holds the protobuf wire-format helpers shared by the RPC messages
// and the records persisted in BadgerDB.
//
// Messages are encoded field by field with protowire so the bytes on the wire are
// plain proto3: any protobuf client built from the same field numbers can talk to
// the server. Zero values are omitted, unknown fields are skipped on decode.
package wire

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Message is implemented by every hand-encoded type of the proto packages.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

// Encoder appends proto3 fields to an internal buffer.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Int64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

func (e *Encoder) Uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// OptionalInt64 writes the field whenever it is set, zero included.
func (e *Encoder) OptionalInt64(num protowire.Number, v *int64) {
	if v == nil {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(*v))
}

func (e *Encoder) String(num protowire.Number, s string) {
	if s == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, s)
}

func (e *Encoder) Bytes(num protowire.Number, b []byte) {
	if len(b) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

// Message embeds a nested message. Nil pointers must be filtered by the caller.
func (e *Encoder) Message(num protowire.Number, m Message) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, m.MarshalWire())
}

// Time embeds a google.protobuf.Timestamp.
func (e *Encoder) Time(num protowire.Number, t time.Time) {
	if t.IsZero() {
		return
	}
	b, err := proto.Marshal(timestamppb.New(t))
	if err != nil {
		// a valid time.Time always marshals
		panic(err)
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

func (e *Encoder) Encoded() []byte {
	return e.buf
}

// Field is one decoded tag/value pair.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	varint uint64
	raw    []byte
}

func (f Field) Int64() int64 { return int64(f.varint) }

func (f Field) Uint64() uint64 { return f.varint }

func (f Field) Int32() int32 { return int32(f.varint) }

func (f Field) String() string { return string(f.raw) }

// Bytes returns a copy, the decoded buffer may be reused by the transport.
func (f Field) Bytes() []byte {
	if len(f.raw) == 0 {
		return nil
	}
	out := make([]byte, len(f.raw))
	copy(out, f.raw)
	return out
}

func (f Field) Message(m Message) error {
	return m.UnmarshalWire(f.raw)
}

func (f Field) Time() (time.Time, error) {
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(f.raw, &ts); err != nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}

// Walk decodes b and calls fn for every varint or length-delimited field.
// Fields of any other wire type are skipped.
func Walk(b []byte, fn func(f Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
			}
			f.varint = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
			}
			f.raw = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
