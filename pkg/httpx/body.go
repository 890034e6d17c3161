package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// maxPeekBytes bounds how much of a request body peekJSONField will buffer.
const maxPeekBytes = 1 << 20

// peekJSONField reads a top-level string field out of a JSON request body
// and then restores the body so downstream handlers can decode it normally.
func peekJSONField(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}

	rest := r.Body
	buf, err := io.ReadAll(io.LimitReader(rest, maxPeekBytes))
	if err != nil {
		r.Body = io.NopCloser(bytes.NewReader(buf))
		return ""
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), rest), rest}

	var payload map[string]any
	if err := json.Unmarshal(buf, &payload); err != nil {
		return ""
	}
	if s, ok := payload[field].(string); ok {
		return s
	}
	return ""
}
