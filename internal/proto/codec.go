package proto

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	gproto "google.golang.org/protobuf/proto"
)

// Codec lets the hand-written wire types travel over gRPC without generated
// code. It registers under the standard "proto" name, so both ends speak
// plain protobuf on the wire; anything that is a real proto.Message still
// goes through the library.
func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

func (codec) Name() string { return "proto" }

func (codec) Marshal(v any) ([]byte, error) {
	switch msg := v.(type) {
	case Message:
		return msg.marshal(nil), nil
	case gproto.Message:
		return gproto.Marshal(msg)
	default:
		return nil, fmt.Errorf("proto codec: cannot marshal %T", v)
	}
}

func (codec) Unmarshal(data []byte, v any) error {
	switch msg := v.(type) {
	case Message:
		return msg.unmarshal(data)
	case gproto.Message:
		return gproto.Unmarshal(data, msg)
	default:
		return fmt.Errorf("proto codec: cannot unmarshal into %T", v)
	}
}
