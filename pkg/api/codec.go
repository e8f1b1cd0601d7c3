package api

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const codecName = "json"

// Codec is the JSON codec the LedgerService speaks. Protobuf messages
// (emptypb.Empty requests) go through protojson, everything else through
// encoding/json.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string {
	return codecName
}

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	if m, ok := msg.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body leaves msg at its zero value.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := msg.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
