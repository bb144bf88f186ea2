package qqmusic

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Call is one module/method invocation inside a request
type Call struct {
	Module string `json:"module"`
	Method string `json:"method"`
	Param  any    `json:"param"`
}

// Param is the argument object of a Call. encoding/json writes map keys sorted,
// which keeps the serialized body stable between runs.
type Param map[string]any

type namedCall struct {
	name string
	call Call
}

// Request is an ordered set of named calls sent in a single envelope
type Request struct {
	calls []namedCall
}

// NewRequest starts a request holding call under the name req_0
func NewRequest(call Call) *Request {
	return (&Request{}).Add("req_0", call)
}

// Add appends a named call. Calls keep insertion order in the serialized body.
func (r *Request) Add(name string, call Call) *Request {
	if call.Param == nil {
		call.Param = Param{}
	}
	r.calls = append(r.calls, namedCall{name: name, call: call})
	return r
}

// Names lists call names in order
func (r *Request) Names() []string {
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.name
	}
	return names
}

func (r *Request) String() string {
	return strings.Join(r.Names(), ", ")
}

// Encode serializes comm followed by every call. The output is what gets signed
// and posted, so it must not be re-marshalled afterwards.
func (r *Request) Encode(comm any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"comm":`)
	if err := writeJSON(&buf, comm); err != nil {
		return nil, errors.Wrap(err, "failed to encode comm")
	}
	for _, c := range r.calls {
		buf.WriteByte(',')
		if err := writeJSON(&buf, c.name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, c.call); err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s", c.name)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// Response is the decoded envelope returned by the endpoint
type Response struct {
	Code    int
	Message string
	calls   map[string]json.RawMessage
	request *Request
}

type callResult struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func parseResponse(body []byte, req *Request) (*Response, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}
	resp := &Response{calls: raw, request: req}
	if v, ok := raw["code"]; ok {
		_ = json.Unmarshal(v, &resp.Code)
	}
	if v, ok := raw["message"]; ok {
		_ = json.Unmarshal(v, &resp.Message)
	}
	return resp, nil
}

// Decode unmarshals the data block of the named call into v
func (r *Response) Decode(name string, v any) error {
	raw, ok := r.calls[name]
	if !ok {
		return &Error{Kind: KindApplication, Message: "missing " + name + " in response"}
	}
	var result callResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return &Error{Kind: KindApplication, Message: "malformed " + name, Err: err}
	}
	if result.Code != 0 {
		return &Error{Kind: KindApplication, Code: result.Code, Message: r.describe(name) + " failed"}
	}
	if v == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, v); err != nil {
		return &Error{Kind: KindApplication, Message: "malformed " + name + " data", Err: err}
	}
	return nil
}

func (r *Response) describe(name string) string {
	if r.request != nil {
		for _, c := range r.request.calls {
			if c.name == name {
				return c.call.Module + "." + c.call.Method
			}
		}
	}
	return name
}
