package editorv1

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Codec marshals messages as plain JSON. It replaces the protobuf JSON codec
// Connect registers under the same name.
type Codec struct{}

// Name returns the codec name used in content types.
func (Codec) Name() string {
	return "json"
}

// Marshal encodes a message.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message")
	}
	return data, nil
}

// Unmarshal decodes a message. An empty payload leaves msg unchanged.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrap(err, "failed to unmarshal message")
	}
	return nil
}
