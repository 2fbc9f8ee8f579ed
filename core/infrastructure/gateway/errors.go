package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/sashabaranov/go-openai"

	"github.com/diavgeia-watch/diavgeia/core/shared/text"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindConnect          Kind = "connect"
	KindTimeout          Kind = "timeout"
	KindHTTPStatus       Kind = "http-status"
	KindMalformedPayload Kind = "malformed-payload"
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind    Kind
	Backend string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps a go-openai or transport error onto an *Error.
func (c *Client) classify(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}

	e := &Error{Backend: c.backend, Err: err}

	var netErr net.Error
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		e.Kind = KindTimeout
		e.Message = fmt.Sprintf("LLM request timed out after %s. Try a smaller model or increase the timeout.", c.timeout)
	case errors.As(err, &apiErr):
		e.Kind = KindHTTPStatus
		e.Status = apiErr.HTTPStatusCode
		e.Message = fmt.Sprintf("LLM API error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
	case errors.As(err, &reqErr):
		e.Kind = KindHTTPStatus
		e.Status = reqErr.HTTPStatusCode
		e.Message = fmt.Sprintf("LLM API error (%d): %s", reqErr.HTTPStatusCode, truncateBody(reqErr.Body))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		e.Kind = KindMalformedPayload
		e.Message = fmt.Sprintf("Unexpected LLM response format: %v", err)
	default:
		e.Kind = KindConnect
		e.Message = fmt.Sprintf("Cannot connect to %s at %s. Is %s running?", c.backend, c.baseURL, c.serverName())
	}
	return e
}

func (c *Client) serverName() string {
	if c.backend == "ollama" {
		return "Ollama"
	}
	return "the API server"
}

func truncateBody(b []byte) string {
	return text.Truncate(string(b), 300)
}
