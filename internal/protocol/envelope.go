package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
)

// Version is the protocol tag carried by every envelope.
const Version = "2.0"

// Standard JSON-RPC error codes used in replies to host requests.
const (
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Kind classifies an envelope by the fields it carries.
type Kind int

const (
	// KindInvalid is an envelope that is neither a request, notification nor reply.
	KindInvalid Kind = iota
	// KindRequest carries a method and an id.
	KindRequest
	// KindNotification carries a method and no id.
	KindNotification
	// KindReply carries an id and exactly one of result or error.
	KindReply
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNotification:
		return "notification"
	case KindReply:
		return "reply"
	default:
		return "invalid"
	}
}

// Envelope is the unit exchanged with the host.
//
// Wire format:
//
//	{"jsonrpc": "2.0", "id": 7, "method": "ui/resource-teardown", "params": {}}
//	{"jsonrpc": "2.0", "method": "ui/notifications/size-changed", "params": {"width": 640, "height": 480}}
//	{"jsonrpc": "2.0", "id": 1, "result": {...}}
//	{"jsonrpc": "2.0", "id": 1, "error": {"code": -32603, "message": "..."}}
//
// The id is kept as raw JSON so replies to host requests echo it byte for byte.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object of a reply envelope.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HasID reports whether the envelope carries a non-null id.
func (e *Envelope) HasID() bool {
	return len(e.ID) > 0 && !bytes.Equal(bytes.TrimSpace(e.ID), []byte("null"))
}

// Kind classifies the envelope.
func (e *Envelope) Kind() Kind {
	switch {
	case e.Method != "" && e.HasID():
		return KindRequest
	case e.Method != "":
		return KindNotification
	case e.HasID() && (len(e.Result) > 0) != (e.Error != nil):
		return KindReply
	default:
		return KindInvalid
	}
}

// IntID returns the id as an integer. Client-issued ids are always integers.
func (e *Envelope) IntID() (int64, bool) {
	if !e.HasID() {
		return 0, false
	}

	id, err := strconv.ParseInt(string(bytes.TrimSpace(e.ID)), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// IDString returns the raw id for logging.
func (e *Envelope) IDString() string {
	return string(e.ID)
}

// Decode parses one inbound message.
//
// Messages that are not JSON objects, lack the "2.0" tag, or do not classify
// as a request, notification or reply are rejected with a MalformedMessageError.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &errors.MalformedMessageError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if env.JSONRPC != Version {
		return nil, &errors.MalformedMessageError{
			Method: env.Method,
			Err:    fmt.Errorf("protocol tag: expected %q, got %q", Version, env.JSONRPC),
		}
	}

	if env.Kind() == KindInvalid {
		return nil, &errors.MalformedMessageError{
			Method: env.Method,
			Err:    fmt.Errorf("reply must carry an id and exactly one of result or error"),
		}
	}

	return &env, nil
}

// marshalParams converts params to raw JSON, leaving nil params absent.
func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}

	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}

	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	return data, nil
}

// newRequest builds a request envelope with an integer id.
func newRequest(id int64, method string, params any) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		JSONRPC: Version,
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  method,
		Params:  raw,
	}, nil
}

// newNotification builds a notification envelope.
func newNotification(method string, params any) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		JSONRPC: Version,
		Method:  method,
		Params:  raw,
	}, nil
}

// newResultReply builds a success reply echoing id. A nil result becomes {}.
func newResultReply(id json.RawMessage, result any) (*Envelope, error) {
	if result == nil {
		result = struct{}{}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return &Envelope{
		JSONRPC: Version,
		ID:      id,
		Result:  raw,
	}, nil
}

// newErrorReply builds an error reply echoing id.
func newErrorReply(id json.RawMessage, code int, message string) *Envelope {
	return &Envelope{
		JSONRPC: Version,
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
		},
	}
}
