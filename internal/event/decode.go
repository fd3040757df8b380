package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadPayload is returned when an event payload cannot be read as the requested type
var ErrBadPayload = errors.New("bad event payload")

// DecodePayload reads a garden event payload as T. Payloads published in process
// arrive as T or *T; anything else (a decoded JSON map, say) takes a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case nil:
		return result, fmt.Errorf("%w: missing payload for %T", ErrBadPayload, result)
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("%w: nil %T", ErrBadPayload, result)
		}
		return *v, nil
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%w: %T from %T: %w", ErrBadPayload, result, input, err)
	}
	return result, nil
}
