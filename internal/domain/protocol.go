package domain

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion tags every outbound response envelope.
const JSONRPCVersion = "2.0"

// JSON-RPC error codes. ErrCodeToolNotFound is in the server-defined range
// so an unknown tool is distinguishable from an unknown top-level method.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeToolNotFound   = -32000
)

// Message is an inbound protocol message. The identifier is kept raw so that
// an absent id is distinguishable from any present value: falsy identifiers
// such as 0 or "" still mark a request, never a notification.
type Message struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the message carries no identifier.
func (m *Message) IsNotification() bool {
	return len(m.ID) == 0
}

// ProtocolError carries JSON-RPC error details for the response envelope.
type ProtocolError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ProtocolError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func NewProtocolError(code int64, message string) *ProtocolError {
	return &ProtocolError{Code: code, Message: message}
}

// Response is an outbound envelope. Result and error are mutually exclusive
// by construction: the only ways to build a Response are NewResult and
// NewErrorResponse, so an envelope carrying both is unrepresentable.
type Response struct {
	id     json.RawMessage
	result json.RawMessage
	err    *ProtocolError
}

// NewResult builds a success envelope echoing the request identifier.
func NewResult(id json.RawMessage, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{id: id, result: raw}, nil
}

// NewErrorResponse builds an error envelope echoing the request identifier.
func NewErrorResponse(id json.RawMessage, perr *ProtocolError) *Response {
	return &Response{id: id, err: perr}
}

// ID returns the echoed request identifier.
func (r *Response) ID() json.RawMessage {
	return r.id
}

// Result returns the raw result payload, nil for error envelopes.
func (r *Response) Result() json.RawMessage {
	return r.result
}

// Err returns the protocol error, nil for success envelopes.
func (r *Response) Err() *ProtocolError {
	return r.err
}

type responseWire struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ProtocolError  `json:"error,omitempty"`
}

func (r *Response) MarshalJSON() ([]byte, error) {
	id := r.id
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return json.Marshal(responseWire{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  r.result,
		Error:   r.err,
	})
}
