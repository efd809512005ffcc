package upstream

import (
	"encoding/json"
	"net/http"
)

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Envelope is the common shape of upstream JSON bodies.
type Envelope struct {
	Message *string         `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Message returns the top-level message field. ok is false when the field is
// absent; err is set when the body is not a JSON object.
func (r *Response) Message() (msg string, ok bool, err error) {
	var env Envelope
	if err := r.DecodeJSON(&env); err != nil {
		return "", false, err
	}
	if env.Message == nil {
		return "", false, nil
	}
	return *env.Message, true, nil
}
