package api

import "encoding/json"

// envelope is the backend's standard response wrapper. Some code paths on
// the backend skip it and send the payload bare; both shapes are accepted
// here, once, instead of at every call site.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodePayload unwraps an enveloped body into out, falling back to
// decoding the body itself when no envelope is present.
func decodePayload(payload []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(payload, out)
}

// envelopeMessage extracts the envelope's message from an error body, or ""
// when the body is bare or unparseable.
func envelopeMessage(payload []byte) string {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}
	return env.Message
}
