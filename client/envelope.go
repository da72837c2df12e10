package client

import (
	"bytes"
	"encoding/json"

	"coursefetch/internal"
)

// rawEnvelope is the common wrapper every endpoint responds with. The
// payload is kept raw because its shape varies by endpoint.
type rawEnvelope struct {
	Success json.RawMessage `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ok reports the envelope's success flag, defaulting to false when the
// field is absent or not a boolean.
func (e rawEnvelope) ok() bool {
	if len(e.Success) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(e.Success, &b); err != nil {
		return false
	}
	return b
}

// shapeMatcher extracts the entity array from one known payload shape.
// Matchers are tried in order; the first match wins, which lets the same
// parser serve every upstream response convention without per-endpoint
// branching.
type shapeMatcher func(data json.RawMessage) (json.RawMessage, bool)

// matchBareArray accepts a payload that is the entity array itself.
func matchBareArray(data json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	return trimmed, true
}

// matchNestedArray accepts the {data:{data:[...]}} convention: a payload
// object whose own data field is the entity array.
func matchNestedArray(data json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var inner struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, false
	}
	return matchBareArray(inner.Data)
}

// isNull reports whether a raw payload is absent or JSON null.
func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeList decodes a list endpoint response into entities. status is
// checked before the body is touched; a non-2xx status fails with the
// code embedded in the message and the body is never parsed. An empty
// array still decodes to a present (non-nil) list.
func decodeList[T any](op, what string, status int, body []byte, matchers ...shapeMatcher) ([]T, error) {
	if status < 200 || status > 299 {
		return nil, internal.NewStatusError(op, what, status)
	}

	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, internal.NewParseError(op, what, err)
	}

	var items []T
	for _, match := range matchers {
		raw, found := match(env.Data)
		if !found {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, internal.NewParseError(op, what, err)
		}
		break
	}

	if env.ok() && items != nil {
		return items, nil
	}

	return nil, internal.NewBusinessError(op, env.Message, what+" failed.")
}

// decodeObject decodes a single-object endpoint response. The payload
// must be a present, non-null object.
func decodeObject[T any](op, what string, status int, body []byte) (T, error) {
	var zero T

	if status < 200 || status > 299 {
		return zero, internal.NewStatusError(op, what, status)
	}

	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, internal.NewParseError(op, what, err)
	}

	if !env.ok() || isNull(env.Data) {
		return zero, internal.NewBusinessError(op, env.Message, what+" failed.")
	}

	var payload T
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return zero, internal.NewParseError(op, what, err)
	}

	return payload, nil
}
