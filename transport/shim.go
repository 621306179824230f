package transport

import (
	"encoding/json"
	"fmt"

	"github.com/viant/agui/protocol"
)

// Normalize decodes an incoming run request.  Payloads arrive either as the
// direct AG-UI shape or wrapped as {"method": ..., "body": {...}}; when both
// wrapper keys are present the body is unwrapped, otherwise the payload is
// taken as-is.
func Normalize(payload []byte) (*protocol.RunInput, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}
	if _, hasMethod := probe["method"]; hasMethod {
		if body, hasBody := probe["body"]; hasBody {
			payload = body
		}
	}
	input := &protocol.RunInput{}
	if err := json.Unmarshal(payload, input); err != nil {
		return nil, fmt.Errorf("failed to decode run input: %w", err)
	}
	return input, nil
}
