package findash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// DecodePayload decodes an upstream response body into generic JSON values.
// Only syntactically invalid JSON is an error; shape is checked later.
func DecodePayload(data []byte) (any, error) {
	var payload any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return payload, nil
}

// UnwrapEnvelope strips transport wrapping added by the workflow system in
// front of the webhooks. It handles [{body: X}] and {body: X}; anything else
// is returned unchanged along with a depth of 0.
func UnwrapEnvelope(payload any) (any, int) {
	if arr, ok := payload.([]any); ok && len(arr) > 0 {
		if first, ok := arr[0].(map[string]any); ok {
			if body, ok := first["body"]; ok {
				return body, 2
			}
		}
	}
	if obj, ok := payload.(map[string]any); ok {
		if body, ok := obj["body"]; ok {
			return body, 1
		}
	}
	return payload, 0
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asSlice(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// truthy follows the loose notion of presence used by the upstream payloads
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func intValue(v any) (int, bool) {
	f, ok := numberValue(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func stringField(obj map[string]any, key string) string {
	s, _ := stringValue(obj[key])
	return s
}
