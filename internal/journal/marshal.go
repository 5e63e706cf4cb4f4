package journal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/canon"
	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// eventMap converts an event to its canonical map form. This form is both
// the hashed identity input and the serialized fields payload, so two
// equal events always share an ID.
func eventMap(ev escrow.Event) map[string]any {
	m := map[string]any{
		"origin":     ev.Origin,
		"seq":        ev.Seq,
		"op":         string(ev.Op),
		"allocation": int64(ev.AllocationID),
		"actor":      string(ev.Actor),
		"height":     int64(ev.Height),
		"status":     string(ev.Status),
	}
	if ev.Fields != nil {
		m["fields"] = ev.Fields
	}
	return m
}

// marshalFields serializes the operation-specific payload to canonical JSON.
// An empty payload serializes as an empty object so the column is NOT NULL.
func marshalFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := canon.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

// unmarshalFields decodes a fields payload. Numbers decode as int64 via
// json.Number: canonical JSON never contains floats, and float64 round
// trips would corrupt large quantities.
func unmarshalFields(data string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	converted, err := convertNumbers(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return converted.(map[string]any), nil
}

// convertNumbers rewrites json.Number values to int64 throughout a decoded
// tree.
func convertNumbers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %q in fields", val)
		}
		return n, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}
