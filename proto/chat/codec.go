// Package chat defines the RPC surface of the chat server: request and response
// messages, the protobuf-compatible codec carrying them, and the gRPC service
// descriptors for AuthService, UserService and ChatService.
package chat

import (
	"fmt"

	"github.com/konarjg/chat-server/proto/wire"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// Codec marshals the hand-encoded messages of this package and falls back to the
// protobuf runtime for generated messages (health checks, reflection).
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wire.Message:
		return m.MarshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("codec: cannot marshal %T", v)
	}
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wire.Message:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("codec: cannot unmarshal into %T", v)
	}
}
