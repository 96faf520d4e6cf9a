// Package proto carries the hand-written wire types for the EVCam gRPC
// service. The types mirror evcam.proto field numbers; encoding goes through
// protowire directly, so no generated code is involved.
package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every wire type in this package.
type Message interface {
	marshal(b []byte) []byte
	unmarshal(b []byte) error
}

// appendString emits a length-delimited field, skipping empty values the way
// proto3 skips zero values.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendInt emits a varint field. Negative values take the proto3 int64
// 10-byte form, so -1 round-trips.
func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	if m == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.marshal(nil))
}

// field is one decoded field handed to the walk callback. Exactly one of
// varint/bytes is meaningful depending on the wire type.
type field struct {
	num    protowire.Number
	varint uint64
	bytes  []byte
}

func (f field) str() string { return string(f.bytes) }
func (f field) int() int64  { return int64(f.varint) }
func (f field) bool() bool  { return f.varint != 0 }
func (f field) raw() []byte { return append([]byte(nil), f.bytes...) }

// walkFields iterates the wire-format fields of data, calling fn for each.
// Unknown field numbers are the callback's business (typically ignored);
// fixed32/fixed64 fields are skipped since the schema never uses them.
func walkFields(data []byte, fn func(f field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("proto: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("proto: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
			if err := fn(field{num: num, varint: v}); err != nil {
				return err
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("proto: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
			if err := fn(field{num: num, bytes: v}); err != nil {
				return err
			}
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return fmt.Errorf("proto: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return fmt.Errorf("proto: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		default:
			return fmt.Errorf("proto: unsupported wire type %d for field %d", typ, num)
		}
	}
	return nil
}
