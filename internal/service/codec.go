package service

import (
	"encoding/json"
)

// JSONCodec carries plain Go request and response structs as JSON. It is
// registered under the "json" name, replacing connect's protobuf-only JSON
// codec for both handlers and clients.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
