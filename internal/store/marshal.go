package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

// marshalDetails converts run details to canonical JSON TEXT for storage.
func marshalDetails(details map[string]any) (string, error) {
	if len(details) == 0 {
		return "{}", nil
	}
	data, err := ir.MarshalCanonical(details)
	if err != nil {
		return "", fmt.Errorf("marshal details: %w", err)
	}
	return string(data), nil
}

// unmarshalDetails parses stored details. Numbers come back as int64 so a
// round trip through the store re-marshals to the same canonical bytes.
func unmarshalDetails(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}

	out, err := convertNumbers(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return out.(map[string]any), nil
}

func convertNumbers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return n, nil
	case map[string]any:
		for k, inner := range val {
			conv, err := convertNumbers(inner)
			if err != nil {
				return nil, err
			}
			val[k] = conv
		}
		return val, nil
	case []any:
		for i, inner := range val {
			conv, err := convertNumbers(inner)
			if err != nil {
				return nil, err
			}
			val[i] = conv
		}
		return val, nil
	default:
		return v, nil
	}
}

func marshalLevel(l ir.Level) string {
	return l.String()
}

func unmarshalLevel(s string) (ir.Level, error) {
	switch s {
	case "low":
		return ir.Low, nil
	case "high":
		return ir.High, nil
	default:
		return ir.Low, fmt.Errorf("unknown level %q", s)
	}
}
